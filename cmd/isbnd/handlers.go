package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/GlazerMann/isbn/pkg/auth"
	"github.com/GlazerMann/isbn/pkg/isbn"
	"github.com/GlazerMann/isbn/pkg/ranges"
)

const maxBatchSize = 500

type APIError struct {
	Code    int
	Message string
	Detail  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("[%d] %s: %s", e.Code, e.Message, e.Detail)
}

func AbortWithError(c *gin.Context, code int, message string, err error) {
	detail := ""
	if err != nil {
		detail = err.Error()
	}

	slog.Error("api error", "path", c.Request.URL.Path, "status", code, "message", message, "error", err)

	c.AbortWithStatusJSON(code, gin.H{
		"status": "error",
		"error":  message,
		"detail": detail,
		"code":   code,
	})
}

func authMiddleware(cfg Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := c.GetHeader("X-API-Key")
		if apiKey == "" {
			apiKey = c.Query("apikey")
		}
		if cfg.APIKey != "" && apiKey == cfg.APIKey {
			c.Set("username", "api-key-user")
			c.Set("role", "admin")
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			claims, err := auth.ParseToken(tokenString)
			if err == nil {
				c.Set("username", claims.Username)
				c.Set("role", claims.Role)
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "Unauthorized: Invalid API Key or Token",
		})
	}
}

type parseError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type parseResponse struct {
	Raw         string       `json:"raw"`
	Valid       bool         `json:"valid"`
	Product     *string      `json:"product,omitempty"`
	Group       *string      `json:"group,omitempty"`
	Registrant  *string      `json:"registrant,omitempty"`
	Publication *string      `json:"publication,omitempty"`
	Agency      *string      `json:"agency,omitempty"`
	Errors      []parseError `json:"errors,omitempty"`
	Diagnostic  string       `json:"diagnostic,omitempty"`
}

func toParseResponse(res *isbn.ParsedISBN) parseResponse {
	out := parseResponse{
		Raw:   res.Raw(),
		Valid: res.IsValid(),
	}
	set := func(dst **string, value string, ok bool) {
		if ok {
			v := value
			*dst = &v
		}
	}
	product, ok := res.Product()
	set(&out.Product, product, ok)
	group, ok := res.Group()
	set(&out.Group, group, ok)
	registrant, ok := res.Registrant()
	set(&out.Registrant, registrant, ok)
	publication, ok := res.Publication()
	set(&out.Publication, publication, ok)
	agency, ok := res.Agency()
	set(&out.Agency, agency, ok)

	for _, e := range res.Errors() {
		out.Errors = append(out.Errors, parseError{Kind: e.Kind.String(), Message: e.Message})
	}
	if !res.IsValid() {
		out.Diagnostic = res.Diagnostic()
	}
	return out
}

// LoginRequest credentials
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ConvertRequest names a code and the target rendering.
type ConvertRequest struct {
	Code         string `json:"code" binding:"required"`
	Format       string `json:"format"`
	GTIN14Prefix string `json:"gtin14_prefix"`
}

func setupRouter(cfg Config, parser *isbn.Parser, table *ranges.Table) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware("isbn-gateway"))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-API-Key"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP", "time": time.Now()})
	})

	api := r.Group("/api")

	api.GET("/parse", func(c *gin.Context) {
		code := c.Query("code")
		res := parser.Parse(code)
		c.JSON(http.StatusOK, toParseResponse(res))
	})

	api.GET("/validate", func(c *gin.Context) {
		code := c.Query("code")
		res := parser.Parse(code)
		resp := gin.H{"code": code, "valid": res.IsValid()}
		if !res.IsValid() {
			kinds := []string{}
			for _, e := range res.Errors() {
				kinds = append(kinds, e.Kind.String())
			}
			resp["errors"] = kinds
		}
		c.JSON(http.StatusOK, resp)
	})

	api.POST("/convert", func(c *gin.Context) {
		var req ConvertRequest
		if err := c.BindJSON(&req); err != nil {
			AbortWithError(c, http.StatusBadRequest, "Invalid request", err)
			return
		}

		res := parser.Parse(req.Code)

		var out string
		var err error
		if req.Format == isbn.FormatGTIN14 && req.GTIN14Prefix != "" {
			if len(req.GTIN14Prefix) != 1 {
				AbortWithError(c, http.StatusBadRequest, "GTIN-14 prefix must be one digit", nil)
				return
			}
			out, err = res.FormatGTIN14(req.GTIN14Prefix[0])
		} else {
			out, err = res.Format(req.Format)
		}
		if err != nil {
			AbortWithError(c, http.StatusUnprocessableEntity, "Cannot convert code", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"code":   req.Code,
			"format": req.Format,
			"result": out,
		})
	})

	api.POST("/validate/batch", func(c *gin.Context) {
		var req struct {
			Codes []string `json:"codes" binding:"required"`
		}
		if err := c.BindJSON(&req); err != nil {
			AbortWithError(c, http.StatusBadRequest, "Invalid request", err)
			return
		}
		if len(req.Codes) > maxBatchSize {
			AbortWithError(c, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("Batch limited to %d codes", maxBatchSize), nil)
			return
		}

		results := make([]parseResponse, 0, len(req.Codes))
		for _, code := range req.Codes {
			results = append(results, toParseResponse(parser.Parse(code)))
		}
		c.JSON(http.StatusOK, gin.H{"results": results})
	})

	r.POST("/api/auth/login", func(c *gin.Context) {
		var creds LoginRequest
		if err := c.BindJSON(&creds); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}

		if cfg.AdminPasswordHash == "" {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Admin login not configured"})
			return
		}
		if creds.Username != cfg.AdminUser || !auth.CheckPassword(creds.Password, cfg.AdminPasswordHash) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}

		token, err := auth.GenerateToken(creds.Username, "admin")
		if err != nil {
			AbortWithError(c, http.StatusInternalServerError, "Failed to issue token", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status": "success",
			"token":  token,
			"user":   gin.H{"username": creds.Username, "role": "admin"},
		})
	})

	admin := api.Group("/admin")
	admin.Use(authMiddleware(cfg))

	admin.GET("/products", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"products": table.Products()})
	})

	admin.GET("/groups", func(c *gin.Context) {
		type groupInfo struct {
			Key    string `json:"key"`
			Agency string `json:"agency"`
			Rules  int    `json:"rules"`
		}
		groups := []groupInfo{}
		for _, key := range table.GroupKeys() {
			product, group, _ := strings.Cut(key, "-")
			g, _ := table.GroupRules(product, group)
			groups = append(groups, groupInfo{Key: key, Agency: g.Agency, Rules: len(g.Rules)})
		}
		c.JSON(http.StatusOK, gin.H{"groups": groups})
	})

	return r
}
