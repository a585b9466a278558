package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"stockroom/internal/auth"
	"stockroom/internal/config"
	"stockroom/internal/handler"
	appmw "stockroom/internal/middleware"
	"stockroom/internal/session"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	sessionStore session.Store,
	jwtService *auth.JWTService,
	pageHandler *handler.PageHandler,
	productHandler *handler.ProductHandler,
	categoryHandler *handler.CategoryHandler,
	tokenHandler *handler.TokenHandler,
	uploadsHandler *handler.UploadsHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(appmw.ResolveSession(sessionStore))

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", handler.Health(cfg.Env))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	e.GET("/", pageHandler.Home)
	e.GET("/uploads/:name", uploadsHandler.Serve)

	// Session-gated admin pages.
	authPages := e.Group("/auth")
	authPages.GET("/login", pageHandler.LoginForm, appmw.RequireGuest)
	authPages.POST("/login", pageHandler.Login, appmw.RequireGuest)
	authPages.GET("/register", pageHandler.RegisterForm, appmw.RequireGuest)
	authPages.POST("/register", pageHandler.Register, appmw.RequireGuest)
	authPages.GET("/logout", pageHandler.Logout)

	products := e.Group("/products", appmw.RequireSession)
	products.GET("", pageHandler.ProductList)
	products.GET("/create", pageHandler.ProductCreateForm)
	products.POST("/create", pageHandler.ProductCreate)
	products.GET("/edit/:id", pageHandler.ProductEditForm)
	products.POST("/edit/:id", pageHandler.ProductEdit)
	products.POST("/delete/:id", pageHandler.ProductDelete)

	e.GET("/chat", pageHandler.ChatPage, appmw.RequireSession)
	e.GET("/ws", pageHandler.ChatWS, appmw.RequireSession)

	// JSON API for the storefront SPA. CORS applies here only, mirroring the
	// admin pages being same-origin.
	api := e.Group("/api", middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.AllowedOrigins(),
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowCredentials: true,
	}))

	// Public reads.
	api.GET("/products", productHandler.List)
	api.GET("/products/:id", productHandler.Get)
	api.GET("/categories", categoryHandler.List)
	api.POST("/auth/token", tokenHandler.Issue)

	// Mutations require a session cookie or a bearer token.
	secured := api.Group("", appmw.RequireAPIAuth(jwtService))
	secured.POST("/products", productHandler.Create)
	secured.PUT("/products/:id", productHandler.Update)
	secured.PATCH("/products/:id", productHandler.PartialUpdate)
	secured.DELETE("/products/:id", productHandler.Delete)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
