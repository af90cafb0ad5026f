package main

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/BekirBz/invoice-ai-mvp/models"
	"github.com/BekirBz/invoice-ai-mvp/pkg/chat"
	"github.com/BekirBz/invoice-ai-mvp/pkg/export"
	"github.com/BekirBz/invoice-ai-mvp/pkg/logging"
	"github.com/BekirBz/invoice-ai-mvp/pkg/ocr"
	"github.com/BekirBz/invoice-ai-mvp/pkg/pipeline"
	"github.com/BekirBz/invoice-ai-mvp/pkg/store"
)

const maxUploadBytes = 20 * 1024 * 1024

// Server bundles the injected dependencies so handlers stay testable against
// the in-memory store.
type Server struct {
	store store.Store
	pipe  *pipeline.Pipeline
	chat  *chat.Engine
}

func newServer(s store.Store, pipe *pipeline.Pipeline, engine *chat.Engine) *Server {
	return &Server{store: s, pipe: pipe, chat: engine}
}

func setupRoutes(r *gin.Engine, s *Server) {
	r.GET("/", s.rootHandler)
	r.POST("/auth/token", s.authTokenHandler)

	// Both spellings are accepted so clients that append a trailing slash
	// don't get a 404 from the router.
	r.POST("/upload_invoice", uploadIdentity(), s.uploadInvoiceHandler)
	r.POST("/upload_invoice/", uploadIdentity(), s.uploadInvoiceHandler)

	r.GET("/invoices", s.listInvoicesHandler)
	r.GET("/invoices/export.xlsx", s.exportXLSXHandler)
	r.GET("/invoices/:id", s.getInvoiceHandler)

	r.POST("/users/sync", s.userSyncHandler)
	r.POST("/users/logins", s.loginEventHandler)

	r.POST("/chat", s.chatHandler)
}

func (s *Server) rootHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Invoice AI backend is running"})
}

// uploadIdentity resolves the acting user for uploads. A valid bearer token
// always wins over the form/query value so a client cannot upload into another
// account just by changing a parameter.
func uploadIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			tokenString := authHeader[7:]
			token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrInvalidKeyType
				}
				return jwtSecret, nil
			})
			if err == nil && token.Valid {
				if claims, ok := token.Claims.(jwt.MapClaims); ok {
					if sub, _ := claims["sub"].(string); sub != "" {
						c.Set("userId", sub)
					}
				}
			}
		}
		c.Next()
	}
}

func (s *Server) authTokenHandler(c *gin.Context) {
	var req struct {
		UserID string `json:"userId" binding:"required"`
		Email  string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId required"})
		return
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   req.UserID,
		"email": req.Email,
		"exp":   time.Now().Add(24 * time.Hour).Unix(),
	})
	tokenString, err := token.SignedString(jwtSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": tokenString})
}

func (s *Server) uploadInvoiceHandler(c *gin.Context) {
	// Token identity beats the form/query parameter.
	userID := c.GetString("userId")
	if userID == "" {
		userID = c.PostForm("userId")
	}
	if userID == "" {
		userID = c.Query("userId")
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file missing"})
		return
	}
	if file.Size > maxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file too large (max 20MB)"})
		return
	}
	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot open upload"})
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read upload"})
		return
	}
	if len(data) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty file"})
		return
	}

	inv, err := s.pipe.Process(c.Request.Context(), data, file.Filename, userID)
	if err != nil {
		if err == ocr.ErrNoContent {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "no text could be extracted from the document"})
			return
		}
		logging.L().WithError(err).WithField("file", file.Filename).Error("upload: processing failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process invoice"})
		return
	}
	c.JSON(http.StatusOK, inv)
}

func (s *Server) listInvoicesHandler(c *gin.Context) {
	userID := c.Query("userId")
	invs, err := s.store.ListInvoices(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list invoices"})
		return
	}
	if invs == nil {
		invs = []models.Invoice{}
	}
	c.JSON(http.StatusOK, invs)
}

func (s *Server) getInvoiceHandler(c *gin.Context) {
	inv, err := s.store.GetInvoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load invoice"})
		return
	}
	if inv == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "invoice not found"})
		return
	}
	c.JSON(http.StatusOK, inv)
}

// exportXLSXHandler streams the user's records as a spreadsheet. The optional
// month parameter takes the same free text the chat engine understands
// ("August 2025", "last month").
func (s *Server) exportXLSXHandler(c *gin.Context) {
	userID := c.Query("userId")
	invs, err := s.store.ListInvoices(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list invoices"})
		return
	}
	if monthText := c.Query("month"); monthText != "" {
		if year, month, ok := chat.ResolveMonth(monthText, time.Now()); ok {
			invs = chat.FilterByMonth(invs, year, month)
		}
	}
	data, err := export.Workbook(invs)
	if err != nil {
		logging.L().WithError(err).Error("export: workbook build failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build workbook"})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="invoices.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func (s *Server) userSyncHandler(c *gin.Context) {
	var req struct {
		UserID      string `json:"userId" binding:"required"`
		Email       string `json:"email"`
		DisplayName string `json:"displayName"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId required"})
		return
	}
	profile := &models.UserProfile{
		UserID:      req.UserID,
		Email:       req.Email,
		DisplayName: req.DisplayName,
		UpdatedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.store.UpsertUser(c.Request.Context(), profile); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to sync user"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *Server) loginEventHandler(c *gin.Context) {
	var req struct {
		UserID    string `json:"userId" binding:"required"`
		TS        string `json:"ts"`
		UserAgent string `json:"userAgent"`
		Type      string `json:"type"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId required"})
		return
	}
	if req.Type == "" {
		req.Type = "login"
	}
	ev := &models.LoginEvent{
		UserID:    req.UserID,
		TS:        req.TS,
		UserAgent: req.UserAgent,
		Type:      req.Type,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.store.AppendLogin(c.Request.Context(), ev); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record login"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *Server) chatHandler(c *gin.Context) {
	var req struct {
		UserID   string `json:"userId" binding:"required"`
		Question string `json:"question" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId and question required"})
		return
	}
	resp, err := s.chat.Ask(c.Request.Context(), req.UserID, req.Question)
	if err != nil {
		logging.L().WithError(err).Error("chat: query failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to answer question"})
		return
	}
	c.JSON(http.StatusOK, resp)
}
