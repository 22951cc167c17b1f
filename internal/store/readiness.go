package store

import (
	"context"
	"fmt"
	"time"
)

// ReadinessChecker — проверка готовности хранилища для /health/ready.
type ReadinessChecker struct {
	pinger Pinger
}

// NewReadinessChecker создаёт проверку готовности поверх Pinger.
func NewReadinessChecker(p Pinger) *ReadinessChecker {
	return &ReadinessChecker{pinger: p}
}

// CheckReady возвращает статус ("ok", "fail") и сообщение.
func (c *ReadinessChecker) CheckReady() (status string, message string) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := c.pinger.Ping(ctx); err != nil {
		return "fail", fmt.Sprintf("хранилище недоступно: %v", err)
	}
	return "ok", "хранилище доступно"
}
