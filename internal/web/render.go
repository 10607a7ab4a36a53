package web

import "github.com/gin-gonic/gin"

// Renderer превращает view-модель в разметку. Ядро наружной вёрсткой не
// занимается: боевой вариант рендерит html/template-шаблоны, запасной
// отдаёт view-модель как JSON — этого хватает тестам и API-клиентам.
type Renderer interface {
	HTML(c *gin.Context, code int, name string, data gin.H)
}

// TemplateRenderer использует шаблоны, загруженные в gin через
// LoadHTMLGlob в main.
type TemplateRenderer struct{}

func (TemplateRenderer) HTML(c *gin.Context, code int, name string, data gin.H) {
	c.HTML(code, name, data)
}

// JSONRenderer — запасной рендер без шаблонов.
type JSONRenderer struct{}

func (JSONRenderer) HTML(c *gin.Context, code int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["view"] = name
	c.JSON(code, data)
}
