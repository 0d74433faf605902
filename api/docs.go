package api

import (
	"net/http"

	"github.com/Domenick1991/airline/web"
	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger"
)

const openAPIPath = "/api/openapi.json"

func registerDocs(r *gin.Engine, swaggerEnabled bool) {
	r.GET(openAPIPath, func(c *gin.Context) {
		doc, err := web.OpenAPI()
		if err != nil {
			internalError(c, err)
			return
		}
		c.Data(http.StatusOK, "application/json", doc)
	})

	if swaggerEnabled {
		r.GET("/swagger/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL(openAPIPath))))
	}
}
