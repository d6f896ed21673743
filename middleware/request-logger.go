package middleware

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
)

func RequestLoggerMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Path() == "/metrics" {
			return c.Next()
		}

		queryParams := c.Request().URI().QueryString()
		queryStr := ""
		if len(queryParams) > 0 {
			queryStr = fmt.Sprintf("?%s", string(queryParams))
		}

		userAgent := c.Get("User-Agent", "N/A")
		contentLength := len(c.Body())

		log.Printf("REQUEST: %s %s%s", c.Method(), c.Path(), queryStr)
		log.Printf("Remote IP: %s | User-Agent: %s | Content-Length: %d bytes", c.IP(), userAgent, contentLength)

		err := c.Next()

		statusCode := c.Response().StatusCode()
		responseSize := len(c.Response().Body())
		log.Printf("Status: %d | Response Size: %d bytes", statusCode, responseSize)

		if err != nil {
			log.Printf("Error occurred: %v", err)
		}
		return err
	}
}
