package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"eventreg/internal/auth"
	"eventreg/internal/bulk"
	"eventreg/internal/checkin"
	"eventreg/internal/export"
	"eventreg/internal/metrics"
	"eventreg/internal/registration"
)

type adminCredsRequest struct {
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=8"`
	InviteCode string `json:"inviteCode"`
}

// RegisterAdmin is open by default; ADMIN_INVITE_CODE gates it when set.
func (h *Handler) RegisterAdmin(c *gin.Context) {
	var req adminCredsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "All fields are required"})
		return
	}
	if h.cfg.AdminInviteCode != "" && req.InviteCode != h.cfg.AdminInviteCode {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid invite code"})
		return
	}
	admin, err := h.accounts.RegisterAdmin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, registration.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "Admin already exists"})
			return
		}
		h.serverError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Admin registered successfully", "id": admin.ID})
}

type adminLoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) AdminLogin(c *gin.Context) {
	var req adminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "All fields are required"})
		return
	}
	admin, err := h.accounts.AuthenticateAdmin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, registration.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		h.serverError(c, err)
		return
	}
	token, err := h.tokens.IssueAdmin(admin.ID, admin.Email, h.cfg.AdminSessionTTL)
	if err != nil {
		h.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Admin logged in successfully", "token": token})
}

// ---------- Bulk CSV operations ----------

func (h *Handler) ConfirmPayments(c *gin.Context) {
	h.runBulk(c, h.importer.ConfirmPayments)
}

func (h *Handler) SendReminders(c *gin.Context) {
	h.runBulk(c, h.importer.SendReminders)
}

func (h *Handler) ImportCSV(c *gin.Context) {
	h.runBulk(c, h.importer.ImportRows)
}

// runBulk saves the upload to a temp file, streams it through the batch
// operation and removes the file whether or not the batch succeeded.
func (h *Handler) runBulk(c *gin.Context, op func(ctx context.Context, r io.Reader) (bulk.Summary, error)) {
	fileHeader, err := c.FormFile("csvFile")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No CSV file uploaded"})
		return
	}

	path := filepath.Join(os.TempDir(), "upload-"+uuid.NewString()+".csv")
	if err := c.SaveUploadedFile(fileHeader, path); err != nil {
		h.serverError(c, err)
		return
	}
	defer os.Remove(path)

	f, err := os.Open(path)
	if err != nil {
		h.serverError(c, err)
		return
	}
	defer f.Close()

	sum, err := op(c.Request.Context(), f)
	if err != nil {
		h.serverError(c, fmt.Errorf("processing csv: %w", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"processed": sum.Processed,
		"failed":    sum.Failed,
		"skipped":   sum.Skipped,
		"rows":      sum.Rows,
	})
}

// ---------- Check-in ----------

type verifyQRRequest struct {
	QRHash string `json:"qrHash"`
	Day    int    `json:"day"`
}

func (h *Handler) VerifyQR(c *gin.Context) {
	var req verifyQRRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.QRHash == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "QR token is required"})
		return
	}
	if req.Day == 0 {
		req.Day = 1
	}
	if req.Day != 1 && req.Day != 2 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Valid day (1 or 2) is required"})
		return
	}

	claims, err := h.tokens.Parse(req.QRHash, auth.KindQR)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired QR code"})
		return
	}

	res, err := h.recorder.Record(c.Request.Context(), claims.RegistrationID, req.Day, c.GetString(auth.CtxAdminEmail))
	if err != nil {
		if errors.Is(err, checkin.ErrRegistrationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Registration not found"})
			return
		}
		h.serverError(c, err)
		return
	}
	if res.Already {
		metrics.DuplicateScans.Inc()
		c.JSON(http.StatusConflict, gin.H{
			"error":    fmt.Sprintf("Already checked in for day %d", res.Attendee.Day),
			"attendee": res.Attendee,
		})
		return
	}
	metrics.CheckIns.Inc()
	c.JSON(http.StatusOK, gin.H{"success": true, "attendee": res.Attendee})
}

func (h *Handler) Attendees(c *gin.Context) {
	attendees, err := h.checkins.ListAttendees(c.Request.Context())
	if err != nil {
		h.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(attendees), "attendees": attendees})
}

// ---------- Analytics & export ----------

func (h *Handler) Analytics(c *gin.Context) {
	rep, err := h.analytics.Report(c.Request.Context())
	if err != nil {
		h.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": rep})
}

func (h *Handler) Export(c *gin.Context) {
	regs, err := h.regs.ListRegistrations(c.Request.Context())
	if err != nil {
		h.serverError(c, err)
		return
	}

	stamp := time.Now().Format("2006-01-02")
	if c.Query("format") == "xlsx" {
		wb, err := export.Workbook(regs)
		if err != nil {
			h.serverError(c, err)
			return
		}
		c.Header("Content-Disposition", "attachment; filename=registrations_"+stamp+".xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		if err := wb.Write(c.Writer); err != nil {
			h.log.Errorw("xlsx write", "err", err)
		}
		return
	}

	c.Header("Content-Disposition", "attachment; filename=registrations_"+stamp+".csv")
	c.Header("Content-Type", "text/csv")
	c.Status(http.StatusOK)
	if err := export.WriteCSV(c.Writer, regs); err != nil {
		h.log.Errorw("csv write", "err", err)
	}
}
