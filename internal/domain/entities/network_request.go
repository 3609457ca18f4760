package entities

import (
	"errors"
	"regexp"
)

// NetworkRequest는 인터페이스 파일에 반영할 요청 한 건의 도메인 엔티티입니다
type NetworkRequest struct {
	ID          int
	NodeName    string
	Name        string
	State       RequestState
	Auto        bool
	Hotplug     bool
	IfaceType   string
	AddrFamily  string
	Address     string
	Netmask     string
	Gateway     string
	Nameservers string
	Updown      []string // 원시 명령 라인 목록, 순서 유지
	Force       bool     // 분류되지 않은 라인이 있어도 덮어쓰기 허용
	Status      RequestStatus
}

// RequestState는 요청된 인터페이스의 목표 상태입니다
type RequestState string

const (
	StatePresent RequestState = "present"
	StateAbsent  RequestState = "absent"
)

// RequestStatus는 요청의 처리 상태를 나타냅니다
type RequestStatus int

const (
	StatusPending RequestStatus = iota
	StatusApplied
	StatusFailed
)

// String은 데이터베이스에 저장되는 상태 문자열을 반환합니다
func (s RequestStatus) String() string {
	switch s {
	case StatusApplied:
		return "applied"
	case StatusFailed:
		return "failed"
	default:
		return "pending"
	}
}

// InterfaceName은 인터페이스 이름을 나타내는 값 객체입니다
type InterfaceName struct {
	value string
}

var (
	ErrInvalidInterfaceName = errors.New("유효하지 않은 인터페이스 이름")
	ErrInvalidRequestState  = errors.New("유효하지 않은 요청 상태")
	ErrInvalidIfaceType     = errors.New("유효하지 않은 인터페이스 타입")
	ErrInvalidAddrFamily    = errors.New("유효하지 않은 주소 패밀리")
)

// NewInterfaceName은 새로운 인터페이스 이름을 생성합니다
func NewInterfaceName(name string) (InterfaceName, error) {
	if !isValidInterfaceName(name) {
		return InterfaceName{}, ErrInvalidInterfaceName
	}
	return InterfaceName{value: name}, nil
}

// String은 인터페이스 이름의 문자열 표현을 반환합니다
func (n InterfaceName) String() string {
	return n.value
}

// Validate는 NetworkRequest의 유효성을 검증합니다
func (r *NetworkRequest) Validate() error {
	if _, err := NewInterfaceName(r.Name); err != nil {
		return err
	}
	if r.State != StatePresent && r.State != StateAbsent {
		return ErrInvalidRequestState
	}
	// absent 요청은 인터페이스 타입과 주소 패밀리를 사용하지 않습니다
	if r.State == StateAbsent {
		return nil
	}
	if !isValidIfaceType(r.IfaceType) {
		return ErrInvalidIfaceType
	}
	if !isValidAddrFamily(r.AddrFamily) {
		return ErrInvalidAddrFamily
	}
	return nil
}

// IsPending은 요청이 처리 대기 중인지 확인합니다
func (r *NetworkRequest) IsPending() bool {
	return r.Status == StatusPending
}

// MarkAsApplied는 요청을 반영 완료 상태로 변경합니다
func (r *NetworkRequest) MarkAsApplied() {
	r.Status = StatusApplied
}

// MarkAsFailed는 요청을 반영 실패 상태로 변경합니다
func (r *NetworkRequest) MarkAsFailed() {
	r.Status = StatusFailed
}

// isValidInterfaceName은 인터페이스 이름의 유효성을 검증합니다
func isValidInterfaceName(name string) bool {
	matched, _ := regexp.MatchString(`^[a-zA-Z0-9._-]{1,15}$`, name)
	return matched
}

// isValidIfaceType은 인터페이스 타입의 유효성을 검증합니다
func isValidIfaceType(ifaceType string) bool {
	return ifaceType == IfaceTypeDHCP || ifaceType == IfaceTypeManual || ifaceType == IfaceTypeStatic
}

// isValidAddrFamily는 주소 패밀리의 유효성을 검증합니다
func isValidAddrFamily(family string) bool {
	return family == AddrFamilyInet || family == AddrFamilyInet6
}
