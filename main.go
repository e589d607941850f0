package main

import (
	"log"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"storefront-backend/internal/config"
	"storefront-backend/internal/database"
	"storefront-backend/internal/events"
	"storefront-backend/internal/handlers"
	"storefront-backend/internal/mailer"
	"storefront-backend/internal/middleware"
	"storefront-backend/internal/ratelimit"
)

func main() {
	config.Load()

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(config.AppEnv.DBName)

	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureUserIndexes(db); err != nil {
		log.Println("[STARTUP] [WARN] user index:", err)
	}
	if err := database.EnsureProductIndexes(db); err != nil {
		log.Println("[STARTUP] [WARN] product index:", err)
	}
	if err := database.EnsureOwnedIndexes(db, "addresses", "payment_methods", "orders", "carts", "wishlists"); err != nil {
		log.Println("[STARTUP] [WARN] owned index:", err)
	}
	if err := database.EnsureResetTokenIndexes(db); err != nil {
		log.Println("[STARTUP] [WARN] reset token index:", err)
	}

	var loginLimiter ratelimit.Limiter
	if config.AppEnv.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: config.AppEnv.RedisAddr})
		loginLimiter = ratelimit.NewRedis(rdb, config.AppEnv.LoginRateLimit, config.AppEnv.LoginRateWindow)
		log.Println("Redis rate limiting on:", config.AppEnv.RedisAddr)
	} else {
		loginLimiter = ratelimit.NewMemory(config.AppEnv.LoginRateLimit, config.AppEnv.LoginRateWindow)
	}

	var publisher events.Publisher
	if len(config.AppEnv.KafkaBrokers) > 0 {
		publisher = events.NewKafka(config.AppEnv.KafkaBrokers, config.AppEnv.OrdersTopic)
		log.Println("Kafka order events to:", config.AppEnv.OrdersTopic)
	} else {
		publisher = events.NewNop()
	}
	defer publisher.Close()

	mail := mailer.NewSMTP(
		config.AppEnv.SMTPHost,
		config.AppEnv.SMTPPort,
		config.AppEnv.SMTPFrom,
		config.AppEnv.SMTPUser,
		config.AppEnv.SMTPPassword,
	)

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{config.AppEnv.AppBaseURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	r.Static("/public", "./public")

	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/signup", handlers.Signup(db, config.AppEnv.JWTSecret, config.AppEnv.SessionTTL))
		auth.POST("/signin",
			middleware.RateLimit(loginLimiter, "signin"),
			handlers.Signin(db, config.AppEnv.JWTSecret, config.AppEnv.SessionTTL, config.AppEnv.RememberMeTTL),
		)
		auth.POST("/signout", handlers.Signout())
		auth.GET("/me", middleware.UserAuth(config.AppEnv.JWTSecret), handlers.GetMe(db))
		auth.POST("/change-password", middleware.UserAuth(config.AppEnv.JWTSecret), handlers.ChangePassword(db))
		auth.POST("/forgot-password",
			middleware.RateLimit(loginLimiter, "forgot-password"),
			handlers.ForgotPassword(db, mail, config.AppEnv.AppBaseURL),
		)
		auth.POST("/reset-password", handlers.ResetPassword(db))
	}

	api.GET("/products", handlers.GetProducts(db))
	api.GET("/products/campaign", handlers.GetCampaignProducts(db))
	api.GET("/products/:id", handlers.GetProduct(db))
	api.GET("/categories", handlers.GetCategories(db))
	api.POST("/chat/ai", handlers.ChatAI(config.AppEnv.OpenAIKey, config.AppEnv.OpenAIModel))

	user := api.Group("")
	user.Use(middleware.UserAuth(config.AppEnv.JWTSecret))
	{
		user.GET("/addresses", handlers.GetAddresses(db))
		user.POST("/addresses", handlers.CreateAddress(db))
		user.GET("/addresses/:id", handlers.GetAddress(db))
		user.PUT("/addresses/:id", handlers.UpdateAddress(db))
		user.DELETE("/addresses/:id", handlers.DeleteAddress(db))
		user.PATCH("/addresses/:id", handlers.SetDefaultAddress(db))

		user.GET("/payment-methods", handlers.GetPaymentMethods(db))
		user.POST("/payment-methods", handlers.CreatePaymentMethod(db))
		user.GET("/payment-methods/:id", handlers.GetPaymentMethod(db))
		user.PUT("/payment-methods/:id", handlers.UpdatePaymentMethod(db))
		user.DELETE("/payment-methods/:id", handlers.DeletePaymentMethod(db))
		user.PATCH("/payment-methods/:id", handlers.SetDefaultPaymentMethod(db))

		user.GET("/cart", handlers.GetCart(db))
		user.POST("/cart/items", handlers.AddCartItem(db))
		user.PUT("/cart/items/:productId", handlers.UpdateCartItem(db))
		user.DELETE("/cart/items/:productId", handlers.RemoveCartItem(db))
		user.DELETE("/cart", handlers.ClearCart(db))

		user.GET("/wishlist", handlers.GetWishlist(db))
		user.POST("/wishlist", handlers.AddWishlistItem(db))
		user.DELETE("/wishlist/:productId", handlers.RemoveWishlistItem(db))

		user.POST("/orders", handlers.CreateOrder(db, publisher))
		user.GET("/orders", handlers.GetOrders(db))
		user.GET("/orders/:id", handlers.GetOrder(db))
	}

	admin := api.Group("/admin")
	admin.Use(middleware.AdminAuth(config.AppEnv.JWTSecret))
	{
		admin.GET("/products", handlers.GetAllProducts(db))
		admin.POST("/products", handlers.CreateProduct(db))
		admin.PUT("/products/:id", handlers.UpdateProduct(db))
		admin.DELETE("/products/:id", handlers.DeleteProduct(db))
		admin.POST("/products/:id/image", handlers.UploadProductImage(db))

		admin.GET("/categories", handlers.GetAllCategories(db))
		admin.POST("/categories", handlers.CreateCategory(db))
		admin.PUT("/categories/:id", handlers.UpdateCategory(db))
		admin.DELETE("/categories/:id", handlers.DeleteCategory(db))

		admin.GET("/orders", handlers.GetAllOrders(db))
		admin.PATCH("/orders/:id/status", handlers.UpdateOrderStatus(db, publisher))
		admin.DELETE("/orders/:id", handlers.DeleteOrder(db))

		admin.GET("/settings", handlers.GetSettings(db))
		admin.PUT("/settings", handlers.UpdateSettings(db))
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r.Run(":" + port)
}
