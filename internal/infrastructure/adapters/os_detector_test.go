package adapters

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	domainerrors "ifupdown-agent/internal/domain/errors"
	"ifupdown-agent/internal/domain/interfaces"
)

// MockFileSystemForOSDetector는 OS 감지용 Mock FileSystem입니다
type MockFileSystemForOSDetector struct {
	mock.Mock
}

func (m *MockFileSystemForOSDetector) ReadFile(path string) ([]byte, error) {
	args := m.Called(path)
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockFileSystemForOSDetector) WriteFile(path string, data []byte, perm os.FileMode) error {
	args := m.Called(path, data, perm)
	return args.Error(0)
}

func (m *MockFileSystemForOSDetector) WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	args := m.Called(path, data, perm)
	return args.Error(0)
}

func (m *MockFileSystemForOSDetector) Exists(path string) bool {
	args := m.Called(path)
	return args.Bool(0)
}

func (m *MockFileSystemForOSDetector) MkdirAll(path string, perm os.FileMode) error {
	args := m.Called(path, perm)
	return args.Error(0)
}

func (m *MockFileSystemForOSDetector) Remove(path string) error {
	args := m.Called(path)
	return args.Error(0)
}

func (m *MockFileSystemForOSDetector) ListFiles(path string) ([]string, error) {
	args := m.Called(path)
	return args.Get(0).([]string), args.Error(1)
}

func TestRealOSDetector_DetectOS(t *testing.T) {
	tests := []struct {
		name           string
		releaseContent string
		readError      error
		expectedOS     interfaces.OSType
		expectError    bool
	}{
		{
			name: "Ubuntu 시스템 감지",
			releaseContent: `PRETTY_NAME="Ubuntu 22.04.3 LTS"
NAME="Ubuntu"
VERSION_ID="22.04"
ID=ubuntu
ID_LIKE=debian
`,
			expectedOS: interfaces.OSTypeUbuntu,
		},
		{
			name: "Debian 시스템 감지",
			releaseContent: `PRETTY_NAME="Debian GNU/Linux 12 (bookworm)"
NAME="Debian GNU/Linux"
ID=debian
`,
			expectedOS: interfaces.OSTypeDebian,
		},
		{
			name: "ID_LIKE로 Debian 계열 감지",
			releaseContent: `NAME="Raspbian GNU/Linux"
ID=raspbian
ID_LIKE=debian
`,
			expectedOS: interfaces.OSTypeDebian,
		},
		{
			name: "RHEL 계열 감지",
			releaseContent: `NAME="Rocky Linux"
ID=rocky
ID_LIKE="rhel centos fedora"
`,
			expectedOS: interfaces.OSTypeRHEL,
		},
		{
			name: "알 수 없는 OS - 에러",
			releaseContent: `NAME="Arch Linux"
ID=arch
`,
			expectError: true,
		},
		{
			name:           "ID 필드 없음 - 에러",
			releaseContent: `PRETTY_NAME="Something"` + "\n",
			expectError:    true,
		},
		{
			name:        "파일 읽기 실패 - 에러",
			readError:   errors.New("permission denied"),
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockFS := new(MockFileSystemForOSDetector)

			if tt.readError != nil {
				mockFS.On("ReadFile", "/host/etc/os-release").Return([]byte{}, tt.readError)
			} else {
				mockFS.On("ReadFile", "/host/etc/os-release").Return([]byte(tt.releaseContent), nil)
			}

			detector := NewRealOSDetector(mockFS)
			result, err := detector.DetectOS()

			if tt.expectError {
				assert.Error(t, err)
				assert.True(t, domainerrors.IsSystemError(err))
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedOS, result)
			}

			mockFS.AssertExpectations(t)
		})
	}
}
