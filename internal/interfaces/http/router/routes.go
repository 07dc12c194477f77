package router

import (
	"github.com/agromarket/backend/internal/domain/catalog"
	"github.com/agromarket/backend/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
)

// Handlers bundles the handlers mounted by MarketplaceGroups
type Handlers struct {
	Auth     *handler.AuthHandler
	Farm     *handler.FarmHandler
	Category *handler.CategoryHandler
	Product  *handler.ProductHandler
	Image    *handler.ImageHandler
	Order    *handler.OrderHandler
	System   *handler.SystemHandler
}

// Middleware holds the middleware MarketplaceGroups attaches to routes
type Middleware struct {
	// RequireAuth guards every mutation and the private endpoints
	RequireAuth gin.HandlerFunc
	// AuthRateLimit, when set, throttles the /auth endpoints
	AuthRateLimit gin.HandlerFunc
	// API runs on every versioned route
	API []gin.HandlerFunc
}

// variantPrefixes maps each product variant to its collection path
var variantPrefixes = map[catalog.Variant]string{
	catalog.VariantCrop:      "/crops",
	catalog.VariantItem:      "/items",
	catalog.VariantMachinery: "/machinery",
}

// MarketplaceGroups builds the route groups of the API. Reads of the
// catalog are public; every mutation, the order book and the session
// endpoints run behind RequireAuth.
func MarketplaceGroups(h Handlers, mw Middleware) []RouteRegistrar {
	authRequired := mw.RequireAuth

	auth := NewDomainGroup("auth", "/auth")
	if mw.AuthRateLimit != nil {
		auth.Use(mw.AuthRateLimit)
	}
	auth.POST("/register/", h.Auth.Register)
	auth.POST("/login/", h.Auth.Login)
	auth.POST("/refresh/", h.Auth.Refresh)
	auth.GET("/me/", authRequired, h.Auth.Me)
	auth.POST("/logout/", authRequired, h.Auth.Logout)

	all := NewDomainGroup("all", "/all")
	all.GET("/", h.Product.ListAll)

	farms := NewDomainGroup("farms", "/farms")
	farms.GET("/", h.Farm.List)
	farms.GET("/:id/", h.Farm.Get)
	farms.GET("/:id/products/", h.Product.ListForFarm)
	farms.POST("/", authRequired, h.Farm.Create)
	farms.PUT("/:id/update/", authRequired, h.Farm.Update)
	farms.DELETE("/:id/", authRequired, h.Farm.Delete)

	groups := []RouteRegistrar{auth, all, farms}

	for _, variant := range catalog.Variants() {
		tag := string(variant)
		products := NewDomainGroup(tag, variantPrefixes[variant])
		products.GET("/", h.Product.ListVariant(tag))
		products.GET("/:id/", h.Product.Get(tag))
		products.POST("/", authRequired, h.Product.Create(tag))
		products.PUT("/:id/update/", authRequired, h.Product.Update(tag))
		products.DELETE("/:id/", authRequired, h.Product.Delete(tag))
		groups = append(groups, products)
	}

	categories := NewDomainGroup("categories", "/categories")
	categories.GET("/", h.Category.List)
	categories.GET("/:id/", h.Category.Get)
	categories.POST("/", authRequired, h.Category.Create)
	categories.PUT("/:id/", authRequired, h.Category.Update)
	categories.DELETE("/:id/", authRequired, h.Category.Delete)

	images := NewDomainGroup("images", "/images").Use(authRequired)
	images.POST("/uploads/", h.Image.PresignUpload)

	orders := NewDomainGroup("orders", "/orders").Use(authRequired)
	orders.POST("/", h.Order.Create)
	orders.GET("/", h.Order.List)
	orders.GET("/:id/", h.Order.Get)
	orders.POST("/:id/confirm/", h.Order.Confirm)
	orders.POST("/:id/cancel/", h.Order.Cancel)
	orders.DELETE("/:id/", h.Order.Delete)

	system := NewDomainGroup("system", "/system")
	system.GET("/info", h.System.Info)

	return append(groups, categories, images, orders, system)
}

// Setup wires the marketplace onto engine: /health at the root and the
// versioned API under /api/v1.
func Setup(engine *gin.Engine, h Handlers, mw Middleware) {
	engine.GET("/health", h.System.Health)

	r := NewRouter(engine, WithAPIVersion("v1"))
	r.Use(mw.API...)
	r.Register(MarketplaceGroups(h, mw)...)
	r.Setup()
}
