package signup

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-featuregate/gate"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// RegisterRegistrationRoutes mounts both phases of the registration flow.
func RegisterRegistrationRoutes[T any](app router.Router[T], opts ...RegistrationControllerOption) {

	controller := NewRegistrationController(opts...)

	app.
		Post(controller.Routes.Register, controller.RegistrationInitialize).
		SetName("register.post")

	app.
		Post(controller.Routes.Finalize, controller.RegistrationFinalize).
		SetName("register-finalize.post")
}

type RegistrationControllerRoutes struct {
	Register string
	Finalize string
}

type RegistrationController struct {
	Debug        bool
	Logger       Logger
	Repo         RepositoryManager
	Codec        TokenCodec
	Config       Config
	Mailer       Mailer
	FeatureGate  gate.FeatureGate
	Routes       *RegistrationControllerRoutes
	ErrorHandler router.ErrorHandler
}

type RegistrationControllerOption func(*RegistrationController) *RegistrationController

func NewRegistrationController(opts ...RegistrationControllerOption) *RegistrationController {
	c := &RegistrationController{
		Logger:       defLogger{},
		ErrorHandler: defaultErrHandler,
		Routes: &RegistrationControllerRoutes{
			Register: "/register",
			Finalize: "/register/finalize",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Repo == nil {
		panic("Missing RepositoryManager in registration controller...")
	}

	if c.Codec == nil {
		panic("Missing TokenCodec in registration controller...")
	}

	if c.Config == nil {
		panic("Missing Config in registration controller...")
	}

	return c
}

// InitiateRegistrationResult is the wire shape of phase one. Pointer fields
// serialize as null whenever validation failed before that check ran.
type InitiateRegistrationResult struct {
	EmailInvalid    bool    `json:"emailInvalid"`
	UsernameInvalid bool    `json:"usernameInvalid"`
	EmailClaimed    *bool   `json:"emailClaimed"`
	UsernameClaimed *bool   `json:"usernameClaimed"`
	ProfileExists   *bool   `json:"profileExists"`
	ClaimToken      *string `json:"claimToken"`
}

// InitiateRegistrationPayload is the phase one request body
type InitiateRegistrationPayload struct {
	Email    string `form:"email" json:"email"`
	Username string `form:"username" json:"username"`
}

func (a *RegistrationController) RegistrationInitialize(ctx router.Context) error {
	payload := new(InitiateRegistrationPayload)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("registration initialize parse payload: ", "error", err)
		return a.ErrorHandler(ctx, goerrors.Wrap(err, goerrors.CategoryBadInput, "unable to parse request body").
			WithCode(goerrors.CodeBadRequest))
	}

	var res *InitializeRegistrationResponse

	req := InitializeRegistrationMessage{
		Email:    payload.Email,
		Username: payload.Username,
		OnResponse: func(resp *InitializeRegistrationResponse) {
			res = resp
		},
	}

	initRegistration := NewInitializeRegistrationHandler(a.Repo, a.Codec, a.Config).
		WithMailer(a.Mailer).
		WithFeatureGate(a.FeatureGate).
		WithLogger(a.Logger)

	if err := initRegistration.Execute(ctx.Context(), req); err != nil {
		a.Logger.Error("registration initialize error: ", "error", err)
		return a.ErrorHandler(ctx, err)
	}

	if a.Debug {
		fmt.Println("======= REGISTRATION INIT =======")
		fmt.Println(print.MaybePrettyJSON(res))
		fmt.Println("=================================")
	}

	result := InitiateRegistrationResult{
		EmailInvalid:    res.EmailInvalid,
		UsernameInvalid: res.UsernameInvalid,
		EmailClaimed:    res.EmailClaimed,
		UsernameClaimed: res.UsernameClaimed,
		ProfileExists:   res.ProfileExists,
		ClaimToken:      res.ClaimToken,
	}

	if !res.Success() {
		return ctx.JSON(fiber.StatusBadRequest, result)
	}

	return ctx.JSON(fiber.StatusOK, result)
}

// FinalizeRegistrationResult is the wire shape of phase two.
type FinalizeRegistrationResult struct {
	ClaimTokenInvalid bool    `json:"claimTokenInvalid"`
	PasswordInvalid   bool    `json:"passwordInvalid"`
	PhoneInvalid      bool    `json:"phoneInvalid"`
	AuthToken         *string `json:"authToken"`
}

// FinalizeRegistrationPayload is the phase two request body
type FinalizeRegistrationPayload struct {
	ClaimToken string `form:"claimToken" json:"claimToken"`
	Email      string `form:"email" json:"email"`
	Password   string `form:"password" json:"password"`
	Phone      string `form:"phone_number" json:"phone_number"`
}

func (a *RegistrationController) RegistrationFinalize(ctx router.Context) error {
	payload := new(FinalizeRegistrationPayload)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("registration finalize parse payload: ", "error", err)
		return a.ErrorHandler(ctx, goerrors.Wrap(err, goerrors.CategoryBadInput, "unable to parse request body").
			WithCode(goerrors.CodeBadRequest))
	}

	var res *FinalizeRegistrationResponse

	req := FinalizeRegistrationMessage{
		ClaimToken: payload.ClaimToken,
		Email:      payload.Email,
		Password:   payload.Password,
		Phone:      payload.Phone,
		OnResponse: func(resp *FinalizeRegistrationResponse) {
			res = resp
		},
	}

	finalizeRegistration := NewFinalizeRegistrationHandler(a.Repo, a.Codec, a.Config).
		WithFeatureGate(a.FeatureGate).
		WithLogger(a.Logger)

	if err := finalizeRegistration.Execute(ctx.Context(), req); err != nil {
		if IsConflictError(err) {
			// the availability check passed but the write lost the race;
			// report it as a claimed-pair rejection, not a server fault
			a.Logger.Warn("registration finalize conflict: ", "error", err)
			return ctx.JSON(fiber.StatusConflict, FinalizeRegistrationResult{
				ClaimTokenInvalid: true,
			})
		}

		a.Logger.Error("registration finalize error: ", "error", err)
		return a.ErrorHandler(ctx, err)
	}

	if a.Debug {
		fmt.Println("======= REGISTRATION FINALIZE =======")
		fmt.Println(print.MaybePrettyJSON(res))
		fmt.Println("=====================================")
	}

	result := FinalizeRegistrationResult{
		ClaimTokenInvalid: res.ClaimTokenInvalid,
		PasswordInvalid:   res.PasswordInvalid,
		PhoneInvalid:      res.PhoneInvalid,
		AuthToken:         res.AuthToken,
	}

	if !res.Success() {
		return ctx.JSON(fiber.StatusBadRequest, result)
	}

	return ctx.JSON(fiber.StatusOK, result)
}

func defaultErrHandler(c router.Context, err error) error {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		richErr = goerrors.Wrap(err, goerrors.CategoryInternal, "An unexpected server error occurred").
			WithCode(goerrors.CodeInternal)
	}

	code := richErr.Code
	if code == 0 {
		code = fiber.StatusInternalServerError
	}

	return c.JSON(code, map[string]any{
		"error": richErr.Message,
		"code":  richErr.TextCode,
	})
}
