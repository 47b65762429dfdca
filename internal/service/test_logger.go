package service

import "edem-chat-server/internal/domain"

// Mock logger used by service package tests.
type MockServiceLogger struct{}

func NewMockServiceLogger() domain.Logger {
	return &MockServiceLogger{}
}

func (l *MockServiceLogger) Info(msg string, fields ...interface{})             {}
func (l *MockServiceLogger) Error(msg string, err error, fields ...interface{}) {}
func (l *MockServiceLogger) Debug(msg string, fields ...interface{})            {}
func (l *MockServiceLogger) Warn(msg string, fields ...interface{})             {}
