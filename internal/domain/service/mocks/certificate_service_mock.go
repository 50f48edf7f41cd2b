package mocks

import (
	"github.com/stretchr/testify/mock"
)

type MockCertificateIDGenerator struct {
	mock.Mock
}

func (m *MockCertificateIDGenerator) Generate() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

type MockQRCodeEncoder struct {
	mock.Mock
}

func (m *MockQRCodeEncoder) EncodeDataURL(content string) (string, error) {
	args := m.Called(content)
	return args.String(0), args.Error(1)
}
