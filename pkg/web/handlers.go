package web

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/teslashibe/go-sentinel/pkg/hub"
)

var timeNow = time.Now

// handleStatus returns the pipeline snapshot
func (s *Server) handleStatus(c *fiber.Ctx) error {
	if s.status == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "pipeline not attached",
		})
	}
	return c.JSON(fiber.Map{
		"pipeline":   s.status.Status(),
		"ws_clients": s.events.ClientCount(),
	})
}

// handleAlerts returns recent triggered alerts, newest first
func (s *Server) handleAlerts(c *fiber.Ctx) error {
	return c.JSON(s.recentAlerts(c.QueryInt("limit", 0)))
}

// handleActivities returns recent activity findings, newest first
func (s *Server) handleActivities(c *fiber.Ctx) error {
	return c.JSON(s.recentFindings(c.QueryInt("limit", 0)))
}

// handleReset clears pipeline state and the recent lists
func (s *Server) handleReset(c *fiber.Ctx) error {
	if s.reset == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "reset not configured",
		})
	}
	if err := s.reset(); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	s.clearRecent()
	s.publish(hub.TopicReset, nil)
	s.logger.Info("reset requested", "remote", c.IP())
	return c.JSON(fiber.Map{"reset": true})
}

// handleEventsWS streams alert and activity events
func (s *Server) handleEventsWS(c *websocket.Conn) {
	hub.NewClient(s.events, c).Run()
}
