package middleware

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
)

// LoggingMiddleware пишет строку на каждый запрос: адрес, метод, путь,
// статус, длительность и размер тела ответа
func LoggingMiddleware(logger *log.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		logger.Printf(
			"%s %s %s -> %d (%v, %d bytes)",
			c.IP(),
			c.Method(),
			c.Path(),
			c.Response().StatusCode(),
			time.Since(start).Round(time.Microsecond),
			len(c.Response().Body()),
		)

		return err
	}
}
