package testutils

import (
	"github.com/stretchr/testify/mock"
)

type MockMailService struct {
	mock.Mock
}

func (m *MockMailService) Send(to, subject, body string) error {
	args := m.Called(to, subject, body)
	return args.Error(0)
}
