package routes

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"fixture_lend_tool/app"
	"fixture_lend_tool/controllers"
)

func RegisterRoutes(r *gin.Engine, a *app.App) {
	fc := controllers.NewFixtureController(a.Engine)

	api := r.Group("/api")
	{
		api.GET("/search", fc.Search)
		api.GET("/details", fc.Details)
		api.POST("/borrow", fc.Borrow)
		api.POST("/return", fc.Return)
	}

	// 单页 UI：有 static 目录就原样伺服
	if st, err := os.Stat(a.Config.StaticDir); err == nil && st.IsDir() {
		r.NoRoute(gin.WrapH(http.FileServer(http.Dir(a.Config.StaticDir))))
	}
}
