package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront-backend/internal/events"
	"storefront-backend/internal/models"
)

type createOrderRequest struct {
	ShippingAddressID string  `json:"shippingAddressId"`
	PaymentMethodID   string  `json:"paymentMethodId"`
	Discount          float64 `json:"discount"`
}

type updateOrderStatusRequest struct {
	Status         string `json:"status" binding:"required"`
	TrackingNumber string `json:"trackingNumber"`
	Courier        string `json:"courier"`
}

type outOfStockError struct {
	ProductID primitive.ObjectID
	Available int
	Requested int
}

func (e outOfStockError) Error() string {
	return "product out of stock"
}

type productNotFoundError struct {
	ProductID primitive.ObjectID
}

func (e productNotFoundError) Error() string {
	return "product not found"
}

var errEmptyCart = errors.New("cart is empty")

type illegalTransitionError struct {
	From models.OrderStatus
	To   models.OrderStatus
}

func (e illegalTransitionError) Error() string {
	return "illegal status transition"
}

// deliveryFeeFor applies the store's free-delivery threshold.
func deliveryFeeFor(subtotal float64, settings models.StoreSettings) float64 {
	if settings.FreeDeliveryThreshold > 0 && subtotal >= settings.FreeDeliveryThreshold {
		return 0
	}
	return settings.DeliveryFee
}

func newOrderNumber() string {
	return "ORD-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
}

func CreateOrder(db *mongo.Database, publisher events.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/orders"
		defer handlePanic(c, route)

		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		var req createOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid request body")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		var shippingAddressID *primitive.ObjectID
		if raw := strings.TrimSpace(req.ShippingAddressID); raw != "" {
			id, err := primitive.ObjectIDFromHex(raw)
			if err != nil {
				respondWithError(c, http.StatusBadRequest, route, "invalid shippingAddressId")
				return
			}
			if err := db.Collection("addresses").FindOne(ctx, bson.M{"_id": id, "userId": userID}).Err(); err != nil {
				respondWithError(c, http.StatusNotFound, route, "address not found")
				return
			}
			shippingAddressID = &id
		}

		if raw := strings.TrimSpace(req.PaymentMethodID); raw != "" {
			id, err := primitive.ObjectIDFromHex(raw)
			if err != nil {
				respondWithError(c, http.StatusBadRequest, route, "invalid paymentMethodId")
				return
			}
			if err := db.Collection("payment_methods").FindOne(ctx, bson.M{"_id": id, "userId": userID}).Err(); err != nil {
				respondWithError(c, http.StatusNotFound, route, "payment method not found")
				return
			}
		}

		settings := loadStoreSettings(ctx, db)

		order := models.Order{
			Number:            newOrderNumber(),
			UserID:            userID,
			Status:            models.StatusPending,
			ShippingAddressID: shippingAddressID,
			Discount:          req.Discount,
			CreatedAt:         time.Now(),
			UpdatedAt:         time.Now(),
		}

		err := withTransaction(ctx, db, func(sessCtx mongo.SessionContext) error {
			var cart models.Cart
			if err := db.Collection("carts").FindOne(sessCtx, bson.M{"userId": userID}).Decode(&cart); err != nil {
				if err == mongo.ErrNoDocuments {
					return errEmptyCart
				}
				return err
			}
			if len(cart.Items) == 0 {
				return errEmptyCart
			}

			items := make([]models.OrderItem, 0, len(cart.Items))
			subtotal := 0.0

			for _, item := range cart.Items {
				var product models.Product
				err := db.Collection("products").FindOne(sessCtx, bson.M{
					"_id":       item.ProductID,
					"isDeleted": bson.M{"$ne": true},
				}).Decode(&product)
				if err == mongo.ErrNoDocuments {
					return productNotFoundError{ProductID: item.ProductID}
				}
				if err != nil {
					return err
				}

				if product.Stock < item.Quantity {
					return outOfStockError{
						ProductID: item.ProductID,
						Available: product.Stock,
						Requested: item.Quantity,
					}
				}

				unitPrice := effectiveProductPrice(product.Price, product.SaleEnabled, product.SalePrice)
				items = append(items, models.OrderItem{
					ProductID: item.ProductID,
					Name:      product.Name,
					ImagePath: product.ImagePath,
					Price:     unitPrice,
					Quantity:  item.Quantity,
					Color:     item.Color,
					Size:      item.Size,
				})
				subtotal += unitPrice * float64(item.Quantity)

				filter := bson.M{
					"_id":       item.ProductID,
					"isDeleted": bson.M{"$ne": true},
					"stock":     bson.M{"$gte": item.Quantity},
				}
				update := bson.M{"$inc": bson.M{"stock": -item.Quantity}}

				res, err := db.Collection("products").UpdateOne(sessCtx, filter, update)
				if err != nil {
					return err
				}
				if res.MatchedCount == 0 {
					return outOfStockError{
						ProductID: item.ProductID,
						Available: product.Stock,
						Requested: item.Quantity,
					}
				}
			}

			order.Items = items
			order.Subtotal = subtotal
			order.DeliveryFee = deliveryFeeFor(subtotal, settings)
			if order.Discount < 0 || order.Discount > subtotal {
				order.Discount = 0
			}
			order.Total = subtotal + order.DeliveryFee - order.Discount

			res, err := db.Collection("orders").InsertOne(sessCtx, order)
			if err != nil {
				return err
			}
			if id, ok := res.InsertedID.(primitive.ObjectID); ok {
				order.ID = id
			}

			_, err = db.Collection("carts").UpdateOne(sessCtx, bson.M{"userId": userID}, bson.M{
				"$set": bson.M{"items": []models.CartItem{}, "updatedAt": time.Now()},
			})
			return err
		})
		if err != nil {
			var stockErr outOfStockError
			if errors.As(err, &stockErr) {
				c.JSON(http.StatusBadRequest, gin.H{
					"error":     "product out of stock",
					"productId": stockErr.ProductID.Hex(),
					"available": stockErr.Available,
					"requested": stockErr.Requested,
				})
				return
			}
			var notFoundErr productNotFoundError
			if errors.As(err, &notFoundErr) {
				c.JSON(http.StatusBadRequest, gin.H{
					"error":     "product not found",
					"productId": notFoundErr.ProductID.Hex(),
				})
				return
			}
			if errors.Is(err, errEmptyCart) {
				respondWithError(c, http.StatusBadRequest, route, "cart is empty")
				return
			}
			log.Println("[ORDER] [ERROR] create failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		publisher.Publish(events.NewEnvelope(events.EventOrderCreated, order.ID.Hex(), events.OrderCreatedPayload{
			OrderID: order.ID.Hex(),
			Number:  order.Number,
			UserID:  userID.Hex(),
			Total:   order.Total,
		}))

		log.Println("[ORDER] [INFO] order created:", order.Number)
		c.JSON(http.StatusCreated, order)
	}
}

func GetOrders(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		cursor, err := db.Collection("orders").Find(ctx, bson.M{"userId": userID}, opts)
		if err != nil {
			log.Println("[ORDER] [ERROR] list failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		defer cursor.Close(ctx)

		orders := make([]models.Order, 0)
		if err := cursor.All(ctx, &orders); err != nil {
			log.Println("[ORDER] [ERROR] decode failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		c.JSON(http.StatusOK, orders)
	}
}

func GetOrder(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		orderID, err := objectIDParam(c, "id")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var order models.Order
		if err := db.Collection("orders").FindOne(ctx, bson.M{"_id": orderID, "userId": userID}).Decode(&order); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}

		c.JSON(http.StatusOK, order)
	}
}

func GetAllOrders(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		filter := bson.M{}
		if raw := strings.TrimSpace(c.Query("status")); raw != "" {
			status, ok := models.ParseOrderStatus(raw)
			if !ok {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
				return
			}
			filter["status"] = status
		}

		opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		cursor, err := db.Collection("orders").Find(ctx, filter, opts)
		if err != nil {
			log.Println("[ORDER] [ERROR] admin list failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		defer cursor.Close(ctx)

		orders := make([]models.Order, 0)
		if err := cursor.All(ctx, &orders); err != nil {
			log.Println("[ORDER] [ERROR] decode failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		c.JSON(http.StatusOK, orders)
	}
}

// UpdateOrderStatus moves an order along its lifecycle. Illegal jumps
// (DELIVERED back to PENDING, moves out of a terminal state) are rejected.
func UpdateOrderStatus(db *mongo.Database, publisher events.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := objectIDParam(c, "id")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
			return
		}

		var req updateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		target, ok := models.ParseOrderStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		// The guarded read and the write run in one transaction so two
		// concurrent updates cannot both pass the transition check.
		var order models.Order
		err = withTransaction(ctx, db, func(sessCtx mongo.SessionContext) error {
			if err := db.Collection("orders").FindOne(sessCtx, bson.M{"_id": orderID}).Decode(&order); err != nil {
				return err
			}

			if !models.CanTransition(order.Status, target) {
				return illegalTransitionError{From: order.Status, To: target}
			}

			set := bson.M{"status": target, "updatedAt": time.Now()}
			if target == models.StatusShipped {
				set["trackingNumber"] = strings.TrimSpace(req.TrackingNumber)
				set["courier"] = strings.TrimSpace(req.Courier)
			}

			res, err := db.Collection("orders").UpdateOne(sessCtx,
				bson.M{"_id": orderID, "status": order.Status},
				bson.M{"$set": set},
			)
			if err != nil {
				return err
			}
			if res.MatchedCount == 0 {
				return illegalTransitionError{From: order.Status, To: target}
			}
			return nil
		})
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		var transitionErr illegalTransitionError
		if errors.As(err, &transitionErr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "illegal status transition",
				"from":  transitionErr.From,
				"to":    transitionErr.To,
			})
			return
		}
		if err != nil {
			log.Println("[ORDER] [ERROR] status update failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		publisher.Publish(events.NewEnvelope(events.EventOrderStatusChanged, orderID.Hex(), events.OrderStatusChangedPayload{
			OrderID: orderID.Hex(),
			From:    string(order.Status),
			To:      string(target),
		}))

		log.Printf("[ORDER] [INFO] order %s status %s -> %s", orderID.Hex(), order.Status, target)
		c.JSON(http.StatusOK, gin.H{"message": "status updated", "status": target})
	}
}

func DeleteOrder(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := objectIDParam(c, "id")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		result, err := db.Collection("orders").DeleteOne(ctx, bson.M{"_id": orderID})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		if result.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "order deleted"})
	}
}
