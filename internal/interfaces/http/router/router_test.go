package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())
	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)

	r = NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "v2", r.apiVersion)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	accounts := NewDomainGroup("accounts", "/accounts")
	accounts.GET("", func(c *gin.Context) { c.String(http.StatusOK, "list") })
	journals := NewDomainGroup("journals", "/journals")
	journals.GET("/:id", func(c *gin.Context) { c.String(http.StatusOK, c.Param("id")) })

	r.Register(accounts).Register(journals).Setup()

	w := serve(engine, http.MethodGet, "/api/v1/accounts")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "list", w.Body.String())

	w = serve(engine, http.MethodGet, "/api/v1/journals/GEN")
	assert.Equal(t, "GEN", w.Body.String())
}

func TestDomainGroup(t *testing.T) {
	t.Run("name and prefix", func(t *testing.T) {
		g := NewDomainGroup("invoices", "/invoices")
		assert.Equal(t, "invoices", g.Name())
		assert.Equal(t, "/invoices", g.Prefix())
	})

	t.Run("chained routes", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("entries", "/journal-entries")
		g.GET("", func(c *gin.Context) { c.String(http.StatusOK, "list") }).
			POST("", func(c *gin.Context) { c.String(http.StatusCreated, "created") }).
			POST("/:id/post", func(c *gin.Context) { c.String(http.StatusOK, "posted") })
		g.RegisterRoutes(engine.Group("/api/v1"))

		assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/api/v1/journal-entries").Code)
		assert.Equal(t, http.StatusCreated, serve(engine, http.MethodPost, "/api/v1/journal-entries").Code)
		assert.Equal(t, "posted", serve(engine, http.MethodPost, "/api/v1/journal-entries/1/post").Body.String())
		assert.Equal(t, http.StatusNotFound, serve(engine, http.MethodPut, "/api/v1/journal-entries").Code)
	})

	t.Run("middleware applies to subgroups only below it", func(t *testing.T) {
		engine := gin.New()
		root := NewDomainGroup("api", "")
		root.GET("/open", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("scope")) })

		scoped := root.Group("ledger", "")
		scoped.Use(func(c *gin.Context) {
			c.Set("scope", "company")
			c.Next()
		})
		scoped.Group("accounts", "/accounts").GET("", func(c *gin.Context) {
			c.String(http.StatusOK, c.GetString("scope"))
		})
		root.RegisterRoutes(engine.Group("/api/v1"))

		assert.Equal(t, "", serve(engine, http.MethodGet, "/api/v1/open").Body.String())
		assert.Equal(t, "company", serve(engine, http.MethodGet, "/api/v1/accounts").Body.String())
	})
}

func TestDomainGroup_Routes(t *testing.T) {
	noop := func(c *gin.Context) {}
	root := NewDomainGroup("ledger", "")
	root.Group("journal-entries", "/journal-entries").
		POST("", noop).
		GET("/:id", noop).
		POST("/:id/post", noop)
	root.Group("accounts", "/accounts").GET("", noop)

	assert.Equal(t, []RouteInfo{
		{Group: "journal-entries", Method: http.MethodPost, Path: "/api/v1/journal-entries"},
		{Group: "journal-entries", Method: http.MethodGet, Path: "/api/v1/journal-entries/:id"},
		{Group: "journal-entries", Method: http.MethodPost, Path: "/api/v1/journal-entries/:id/post"},
		{Group: "accounts", Method: http.MethodGet, Path: "/api/v1/accounts"},
	}, root.Routes("/api/v1"))
}

func TestRouter_Prefix(t *testing.T) {
	assert.Equal(t, "/api/v1", NewRouter(gin.New()).Prefix())
	assert.Equal(t, "/api/v2", NewRouter(gin.New(), WithAPIVersion("v2")).Prefix())
}
