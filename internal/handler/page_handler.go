package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"stockroom/internal/chat"
	apperrors "stockroom/internal/errors"
	"stockroom/internal/middleware"
	"stockroom/internal/service"
	"stockroom/internal/session"
)

// PageHandler renders the server-side admin pages.
type PageHandler struct {
	authService    service.AuthService
	productService service.ProductService
	hub            *chat.Hub
}

// NewPageHandler creates a new page handler.
func NewPageHandler(authService service.AuthService, productService service.ProductService, hub *chat.Hub) *PageHandler {
	return &PageHandler{
		authService:    authService,
		productService: productService,
		hub:            hub,
	}
}

func pageData(c echo.Context, title string) echo.Map {
	data := echo.Map{"Title": title}
	if snap, ok := middleware.SnapshotFrom(c); ok {
		data["User"] = snap
	}
	return data
}

// Home redirects to the product list.
func (h *PageHandler) Home(c echo.Context) error {
	return c.Redirect(http.StatusFound, "/products")
}

// LoginForm renders the login page.
func (h *PageHandler) LoginForm(c echo.Context) error {
	data := pageData(c, "Sign In")
	data["Username"] = ""
	return c.Render(http.StatusOK, "login", data)
}

// Login processes a login form submission.
func (h *PageHandler) Login(c echo.Context) error {
	username := c.FormValue("username")
	password := c.FormValue("password")

	data := pageData(c, "Sign In")
	data["Username"] = username

	if username == "" || password == "" {
		data["Error"] = "username and password are required"
		return c.Render(http.StatusBadRequest, "login", data)
	}

	sess, err := h.authService.Authenticate(c.Request().Context(), username, password)
	if err != nil {
		if err == apperrors.ErrInvalidCredentials {
			data["Error"] = err.Error()
			return c.Render(http.StatusUnauthorized, "login", data)
		}
		c.Logger().Errorf("login: %v", err)
		data["Error"] = "could not sign in, please try again"
		return c.Render(http.StatusInternalServerError, "login", data)
	}

	session.SetCookie(c.Response(), sess.ID, sess.ExpiresAt)
	return c.Redirect(http.StatusFound, "/products")
}

// RegisterForm renders the registration page.
func (h *PageHandler) RegisterForm(c echo.Context) error {
	data := pageData(c, "Register")
	data["Username"] = ""
	data["Email"] = ""
	return c.Render(http.StatusOK, "register", data)
}

// Register processes a registration form submission.
func (h *PageHandler) Register(c echo.Context) error {
	username := c.FormValue("username")
	password := c.FormValue("password")
	email := c.FormValue("email")

	data := pageData(c, "Register")
	data["Username"] = username
	data["Email"] = email

	sess, err := h.authService.Register(c.Request().Context(), username, password, email)
	if err != nil {
		if ve, ok := apperrors.AsValidation(err); ok {
			data["Errors"] = ve.Messages()
			return c.Render(http.StatusBadRequest, "register", data)
		}
		if err == apperrors.ErrUsernameTaken {
			data["Error"] = err.Error()
			return c.Render(http.StatusConflict, "register", data)
		}
		c.Logger().Errorf("register: %v", err)
		data["Error"] = "could not create the account, please try again"
		return c.Render(http.StatusInternalServerError, "register", data)
	}

	session.SetCookie(c.Response(), sess.ID, sess.ExpiresAt)
	return c.Redirect(http.StatusFound, "/products")
}

// Logout destroys the session. A failing store is logged and ignored: the
// user intends to leave either way, so the cookie is cleared regardless.
func (h *PageHandler) Logout(c echo.Context) error {
	if id, ok := middleware.SessionIDFrom(c); ok {
		if err := h.authService.DestroySession(c.Request().Context(), id); err != nil {
			c.Logger().Errorf("destroy session: %v", err)
		}
	}
	session.ClearCookie(c.Response())
	return c.Redirect(http.StatusFound, "/auth/login")
}

// ProductList renders the product table.
func (h *PageHandler) ProductList(c echo.Context) error {
	products, err := h.productService.List(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("list products: %v", err)
		return c.String(http.StatusInternalServerError, "could not load products")
	}

	data := pageData(c, "Products")
	data["Products"] = products
	return c.Render(http.StatusOK, "products_list", data)
}

// ProductCreateForm renders an empty product form.
func (h *PageHandler) ProductCreateForm(c echo.Context) error {
	data := pageData(c, "Create Product")
	data["Form"] = service.ProductInput{}
	return c.Render(http.StatusOK, "product_form", data)
}

// ProductCreate processes the create form.
func (h *PageHandler) ProductCreate(c echo.Context) error {
	input := productInputFrom(c)
	_, err := h.productService.Create(c.Request().Context(), input, imageFileFrom(c))
	if err != nil {
		return h.renderProductFormError(c, "Create Product", "", input, err)
	}
	return c.Redirect(http.StatusFound, "/products")
}

// ProductEditForm renders the form pre-filled with an existing product.
func (h *PageHandler) ProductEditForm(c echo.Context) error {
	product, err := h.productService.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		if err == apperrors.ErrProductNotFound {
			return c.String(http.StatusNotFound, err.Error())
		}
		c.Logger().Errorf("load product: %v", err)
		return c.String(http.StatusInternalServerError, "could not load product")
	}

	data := pageData(c, "Edit Product")
	data["IsEdit"] = true
	data["ID"] = product.ID.String()
	data["Form"] = service.ProductInput{
		Name:        product.Name,
		Price:       formatFloat(product.Price),
		Description: product.Description,
		CategoryID:  formatInt(product.CategoryID),
		Stock:       formatInt(product.Stock),
	}
	return c.Render(http.StatusOK, "product_form", data)
}

// ProductEdit processes the edit form.
func (h *PageHandler) ProductEdit(c echo.Context) error {
	input := productInputFrom(c)
	_, err := h.productService.Update(c.Request().Context(), c.Param("id"), input, imageFileFrom(c))
	if err != nil {
		if err == apperrors.ErrProductNotFound {
			return c.String(http.StatusNotFound, err.Error())
		}
		return h.renderProductFormError(c, "Edit Product", c.Param("id"), input, err)
	}
	return c.Redirect(http.StatusFound, "/products")
}

// ProductDelete removes a product and returns to the list.
func (h *PageHandler) ProductDelete(c echo.Context) error {
	if _, err := h.productService.Delete(c.Request().Context(), c.Param("id")); err != nil {
		if err == apperrors.ErrProductNotFound {
			return c.String(http.StatusNotFound, err.Error())
		}
		c.Logger().Errorf("delete product: %v", err)
		return c.String(http.StatusInternalServerError, "could not delete product")
	}
	return c.Redirect(http.StatusFound, "/products")
}

// ChatPage renders the chat page.
func (h *PageHandler) ChatPage(c echo.Context) error {
	return c.Render(http.StatusOK, "chat", pageData(c, "Chat"))
}

// ChatWS upgrades the connection and joins it to the relay. The route sits
// behind the session gate, so a snapshot is always present; the relay binds
// the connection to its username.
func (h *PageHandler) ChatWS(c echo.Context) error {
	snap, ok := middleware.SnapshotFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrUnauthenticated.Error())
	}
	return chat.ServeWS(h.hub, c.Response(), c.Request(), snap.Username)
}

func (h *PageHandler) renderProductFormError(c echo.Context, title, id string, input service.ProductInput, err error) error {
	data := pageData(c, title)
	data["Form"] = input
	if id != "" {
		data["IsEdit"] = true
		data["ID"] = id
	}

	status := http.StatusBadRequest
	if ve, ok := apperrors.AsValidation(err); ok {
		data["Errors"] = ve.Messages()
	} else if err == apperrors.ErrUploadRejected {
		data["Error"] = err.Error()
	} else {
		c.Logger().Errorf("save product: %v", err)
		data["Error"] = "could not save product"
		status = http.StatusInternalServerError
	}
	return c.Render(status, "product_form", data)
}
