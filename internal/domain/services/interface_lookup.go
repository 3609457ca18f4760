package services

import (
	"fmt"

	"ifupdown-agent/internal/domain/constants"
	"ifupdown-agent/internal/domain/interfaces"
)

// InterfaceLookupService는 호스트에 존재하는 네트워크 인터페이스를 조회하는 도메인 서비스입니다
type InterfaceLookupService struct {
	fileSystem interfaces.FileSystem
}

// NewInterfaceLookupService는 새로운 InterfaceLookupService를 생성합니다
func NewInterfaceLookupService(fs interfaces.FileSystem) *InterfaceLookupService {
	return &InterfaceLookupService{
		fileSystem: fs,
	}
}

// ExistsOnHost는 인터페이스가 호스트에 실제로 존재하는지 확인합니다
func (s *InterfaceLookupService) ExistsOnHost(name string) bool {
	// /sys/class/net 디렉토리에서 인터페이스 확인
	return s.fileSystem.Exists(fmt.Sprintf("%s/%s", constants.SysClassNet, name))
}
