// Package httpapi wires the HTTP surface. Handlers translate service
// results into the status taxonomy (400 validation, 401 auth, 404 missing,
// 409 conflict, 500 fault) and never let an error escape as a panic.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"eventreg/internal/analytics"
	"eventreg/internal/auth"
	"eventreg/internal/bulk"
	"eventreg/internal/checkin"
	"eventreg/internal/config"
	"eventreg/internal/mail"
	"eventreg/internal/observability"
	"eventreg/internal/queue"
	"eventreg/internal/registration"
)

type Handler struct {
	cfg       config.App
	log       *zap.SugaredLogger
	tokens    *auth.Tokens
	accounts  *registration.Service
	regs      *registration.Repository
	recorder  *checkin.Recorder
	checkins  *checkin.Repository
	importer  *bulk.Importer
	analytics *analytics.Service
	outbox    queue.Queue
}

func New(
	cfg config.App,
	log *zap.SugaredLogger,
	tokens *auth.Tokens,
	accounts *registration.Service,
	regs *registration.Repository,
	recorder *checkin.Recorder,
	checkins *checkin.Repository,
	importer *bulk.Importer,
	analyticsSvc *analytics.Service,
	outbox queue.Queue,
) *Handler {
	return &Handler{
		cfg:       cfg,
		log:       log,
		tokens:    tokens,
		accounts:  accounts,
		regs:      regs,
		recorder:  recorder,
		checkins:  checkins,
		importer:  importer,
		analytics: analyticsSvc,
		outbox:    outbox,
	}
}

// Register attaches every route to the engine.
func (h *Handler) Register(r *gin.Engine) {
	userAuth := auth.UserAuth(h.tokens, h.accounts.UserExists)
	adminAuth := auth.AdminAuth(h.tokens, h.accounts.AdminEmailByID)

	r.POST("/register", h.RegisterUser)
	r.POST("/login", h.Login)
	r.GET("/verify", userAuth, h.Verify)
	r.GET("/logout", h.Logout)

	r.POST("/registerIOI", userAuth, h.CreateRegistration)
	r.GET("/verifyIOI", userAuth, h.VerifyRegistration)
	r.GET("/verifyIOIPaymentNotMade", userAuth, h.VerifyPaymentNotMade)
	r.GET("/verifyIOIPaymentMade", userAuth, h.VerifyPaymentMade)

	r.POST("/admin/register", h.RegisterAdmin)
	r.POST("/admin/login", h.AdminLogin)

	admin := r.Group("/admin", adminAuth)
	admin.POST("/confirm-payments", h.ConfirmPayments)
	admin.POST("/send-reminders", h.SendReminders)
	admin.POST("/import-csv", h.ImportCSV)
	admin.GET("/analytics", h.Analytics)
	admin.POST("/verify-qr", h.VerifyQR)
	admin.POST("/verify-attendee", h.VerifyQR)
	admin.GET("/attendees", h.Attendees)
	admin.GET("/registrations/export", h.Export)
}

func (h *Handler) serverError(c *gin.Context, err error) {
	h.log.Errorw("internal error", "path", c.FullPath(), "err", err)
	observability.CaptureErr(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

// enqueueAck queues the registration-received email; a full outbox or dead
// broker only costs the notification.
func (h *Handler) enqueueAck(reg registration.Registration) {
	html, err := mail.ReceivedHTML(mail.TemplateData{
		Name:           reg.FullName,
		RegistrationID: reg.ID,
		PaymentLink:    h.cfg.PaymentLink,
	})
	if err != nil {
		h.log.Errorw("render ack mail", "err", err)
		return
	}
	body, err := json.Marshal(mail.Message{
		To:      reg.Email,
		Subject: "Registration Received",
		HTML:    html,
	})
	if err != nil {
		h.log.Errorw("marshal ack mail", "err", err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := h.outbox.Publish(ctx, queue.Message{Type: queue.TypeMail, Body: body}); err != nil {
		h.log.Warnw("ack mail not queued", "to", reg.Email, "err", err)
	}
}

// ---------- User auth ----------

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

func (h *Handler) RegisterUser(c *gin.Context) {
	auth.ClearSessionCookie(c)
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "All fields are required"})
		return
	}
	user, err := h.accounts.RegisterUser(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, registration.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "User already exists"})
			return
		}
		h.serverError(c, err)
		return
	}
	h.setSession(c, user.ID)
	c.JSON(http.StatusCreated, gin.H{"message": "User created successfully"})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) Login(c *gin.Context) {
	auth.ClearSessionCookie(c)
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "All fields are required"})
		return
	}
	user, err := h.accounts.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, registration.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		h.serverError(c, err)
		return
	}
	h.setSession(c, user.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Login successful"})
}

func (h *Handler) setSession(c *gin.Context, userID string) {
	token, err := h.tokens.IssueSession(userID, h.cfg.SessionTTL)
	if err != nil {
		h.serverError(c, err)
		return
	}
	secure := h.cfg.Env == "prod" || h.cfg.Env == "production"
	auth.SetSessionCookie(c, token, int(h.cfg.SessionTTL.Seconds()), secure)
}

func (h *Handler) Verify(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Authorized"})
}

func (h *Handler) Logout(c *gin.Context) {
	auth.ClearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "Logout successful"})
}

// ---------- Registration ----------

type profileRequest struct {
	DOB             string `json:"dob" binding:"required"`
	Phone           string `json:"candidateContact" binding:"required"`
	School          string `json:"schoolName" binding:"required"`
	City            string `json:"city" binding:"required"`
	Grade           string `json:"grade" binding:"required"`
	Stream          string `json:"stream"`
	GuardianName    string `json:"guardianName" binding:"required"`
	GuardianContact string `json:"guardianContact" binding:"required"`
	GuardianEmail   string `json:"guardianEmail" binding:"required,email"`
	TShirtSize      string `json:"tshirtSize" binding:"required"`
	Allergies       string `json:"allergies"`
	Accommodation   bool   `json:"accommodation"`
}

func (h *Handler) CreateRegistration(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "All fields are required"})
		return
	}
	dob, err := time.Parse("2006-01-02", req.DOB)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date of birth"})
		return
	}
	userID := c.GetString(auth.CtxUserID)
	reg, err := h.accounts.CreateProfile(c.Request.Context(), userID, registration.ProfileInput{
		Phone:           req.Phone,
		DOB:             &dob,
		School:          req.School,
		City:            req.City,
		Grade:           req.Grade,
		Stream:          req.Stream,
		GuardianName:    req.GuardianName,
		GuardianContact: req.GuardianContact,
		GuardianEmail:   req.GuardianEmail,
		TShirtSize:      req.TShirtSize,
		Allergies:       req.Allergies,
		Accommodation:   req.Accommodation,
	})
	if err != nil {
		switch {
		case errors.Is(err, registration.ErrAlreadyRegistered):
			c.JSON(http.StatusConflict, gin.H{"error": "Already registered"})
		case errors.Is(err, registration.ErrNotFound):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		default:
			h.serverError(c, err)
		}
		return
	}
	h.enqueueAck(reg)
	c.JSON(http.StatusOK, gin.H{"message": "Registered Successfully", "registrationId": reg.ID})
}

func (h *Handler) VerifyRegistration(c *gin.Context) {
	ok, err := h.accounts.HasProfile(c.Request.Context(), c.GetString(auth.CtxUserID))
	if err != nil {
		h.serverError(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Authorized"})
}

func (h *Handler) VerifyPaymentNotMade(c *gin.Context) {
	status, err := h.paymentStatus(c)
	if err != nil {
		return
	}
	if status == registration.PaymentSuccess {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Already paid"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Not yet paid"})
}

func (h *Handler) VerifyPaymentMade(c *gin.Context) {
	status, err := h.paymentStatus(c)
	if err != nil {
		return
	}
	if status != registration.PaymentSuccess {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Payment not made"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Payment Made"})
}

// paymentStatus resolves the caller's payment state, writing the response
// itself on failure.
func (h *Handler) paymentStatus(c *gin.Context) (registration.PaymentStatus, error) {
	status, err := h.accounts.PaymentState(c.Request.Context(), c.GetString(auth.CtxUserID))
	if err != nil {
		if errors.Is(err, registration.ErrNotRegistered) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not registered"})
			return "", err
		}
		h.serverError(c, err)
		return "", err
	}
	return status, nil
}
