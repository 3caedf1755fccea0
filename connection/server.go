package connection

import (
	"context"
	"log"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	authController "labourconnect/controller/auth"
	billingController "labourconnect/controller/billing"
	catalogController "labourconnect/controller/catalog"
	userController "labourconnect/controller/user"
	workerController "labourconnect/controller/worker"
	"labourconnect/services"
	"labourconnect/store"
)

func StartServer() {
	router := gin.Default()
	router.Use(cors.Default())

	var (
		s        store.Store
		sender   services.SMSSender
		captcha  services.CaptchaVerifier
		uploader services.Uploader
	)

	// Without credentials the service runs fully in-process: seeded
	// memory store, logged SMS, pass-through captcha.
	if os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") == "" {
		log.Println("GOOGLE_APPLICATION_CREDENTIALS not set, running in demo mode")
		mem := store.NewMemoryStore()
		if err := store.SeedDemoData(context.Background(), mem); err != nil {
			log.Fatalf("Failed to seed demo data: %v", err)
		}
		s = mem
		sender = services.LogSender{}
		captcha = services.AllowAllVerifier{}
		uploader = services.NewMemoryUploader()
	} else {
		fb, storageClient, err := FBConnection()
		if err != nil {
			log.Fatalf("Failed to initialize Firebase clients: %v", err)
		}
		s = store.NewFirestoreStore(fb)
		sender = services.NewGatewaySender()
		captcha = services.RecaptchaVerifier{}
		uploader = services.NewStorageUploader(storageClient)
	}

	RegisterRoutes(router, s, sender, captcha, uploader)

	router.Run()
}

// RegisterRoutes wires every controller onto the router. Split out from
// StartServer so tests can stand up the full route table on a memory
// store.
func RegisterRoutes(router *gin.Engine, s store.Store, sender services.SMSSender, captcha services.CaptchaVerifier, uploader services.Uploader) {
	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "Api is running!"})
	})

	authController.OTPController(router, s, sender, captcha)
	authController.RegisterController(router, s)
	authController.SessionController(router, s)
	authController.CaptchaController(router, captcha)
	workerController.WorkerController(router, s)
	userController.UserController(router, s, uploader)
	catalogController.CatalogController(router, s)
	billingController.BillingController(router, s)
}
