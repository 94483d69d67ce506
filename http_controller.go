package login

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
)

// HealthMessage is the literal body of the liveness endpoint. The
// endpoint performs no dependency checks.
const HealthMessage = "Login service is running"

type AuthControllerRoutes struct {
	Login  string
	Signup string
	Health string
}

// AuthController translates HTTP requests into workflow calls. Every
// workflow failure collapses into a bare status code with an empty
// body so error content never leaks account information.
type AuthController struct {
	Logger Logger
	Auth   Authenticator
	Routes *AuthControllerRoutes
}

type AuthControllerOption func(*AuthController) *AuthController

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger: defLogger{},
		Routes: &AuthControllerRoutes{
			Login:  "/auth/login",
			Signup: "/auth/signup",
			Health: "/auth/health",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Auth == nil {
		panic("Missing Authenticator in auth controller...")
	}

	return c
}

func WithAuthenticator(auther Authenticator) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Auth = auther
		return c
	}
}

func WithControllerLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

func RegisterAuthRoutes(app *fiber.App, opts ...AuthControllerOption) *AuthController {
	controller := NewAuthController(opts...)

	app.Post(controller.Routes.Login, controller.LoginPost).Name("auth.login")
	app.Post(controller.Routes.Signup, controller.SignupPost).Name("auth.signup")
	app.Get(controller.Routes.Health, controller.Health).Name("auth.health")

	return controller
}

// LoginRequest payload
type LoginRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules. The email field carries no rules
// on purpose: the store accepts any key, including the empty string,
// and a signed-up account must stay loggable whatever its email looks
// like.
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Password, validation.Required),
	)
}

// LoginResponse is the success body for POST /auth/login.
type LoginResponse struct {
	Token     string `json:"token"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	ExpiresIn int64  `json:"expiresIn"`
}

func (a *AuthController) LoginPost(ctx *fiber.Ctx) error {
	payload := new(LoginRequest)

	if err := ctx.BodyParser(payload); err != nil {
		a.Logger.Error("login parse payload", "error", err)
		return ctx.Status(fiber.StatusUnauthorized).Send(nil)
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Debug("login validate payload", "error", err)
		return ctx.Status(fiber.StatusUnauthorized).Send(nil)
	}

	res, err := a.Auth.Login(ctx.UserContext(), payload.Email, payload.Password)
	if err != nil {
		a.Logger.Info("login rejected", "error", err)
		return ctx.Status(fiber.StatusUnauthorized).Send(nil)
	}

	return ctx.Status(fiber.StatusOK).JSON(LoginResponse{
		Token:     res.Token,
		Email:     res.Email,
		FirstName: res.FirstName,
		LastName:  res.LastName,
		ExpiresIn: res.ExpiresIn,
	})
}

// SignupRequest payload
type SignupRequest struct {
	Email     string `form:"email" json:"email"`
	Password  string `form:"password" json:"password"`
	FirstName string `form:"firstName" json:"firstName"`
	LastName  string `form:"lastName" json:"lastName"`
}

// Validate will run validation rules. Email format is left to callers
// that want it; only the password is required here, matching what the
// hashing layer enforces anyway.
func (r SignupRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Password, validation.Required),
	)
}

// SignupResponse is the success body for POST /auth/signup.
type SignupResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Message   string `json:"message"`
}

func (a *AuthController) SignupPost(ctx *fiber.Ctx) error {
	payload := new(SignupRequest)

	if err := ctx.BodyParser(payload); err != nil {
		a.Logger.Error("signup parse payload", "error", err)
		return ctx.Status(fiber.StatusBadRequest).Send(nil)
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Debug("signup validate payload", "error", err)
		return ctx.Status(fiber.StatusBadRequest).Send(nil)
	}

	res, err := a.Auth.Signup(ctx.UserContext(), payload.Email, payload.Password, payload.FirstName, payload.LastName)
	if err != nil {
		a.Logger.Info("signup rejected", "error", err)
		return ctx.Status(fiber.StatusBadRequest).Send(nil)
	}

	return ctx.Status(fiber.StatusCreated).JSON(SignupResponse{
		ID:        res.ID,
		Email:     res.Email,
		FirstName: res.FirstName,
		LastName:  res.LastName,
		Message:   res.Message,
	})
}

func (a *AuthController) Health(ctx *fiber.Ctx) error {
	return ctx.Status(fiber.StatusOK).SendString(HealthMessage)
}
