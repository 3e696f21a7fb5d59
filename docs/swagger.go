package docs

// @title 图鉴回复机器人 API
// @version 1.0
// @description 搜索提到宝可梦名字的帖子，并回复图鉴卡片的机器人运维接口
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url http://www.swagger.io/support
// @contact.email support@swagger.io

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /
// @schemes http https
