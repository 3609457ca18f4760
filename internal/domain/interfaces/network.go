package interfaces

import (
	"context"

	"ifupdown-agent/internal/domain/entities"
)

// NetworkConfigurer는 요청 상태를 관리 파일에 반영하는 인터페이스입니다
type NetworkConfigurer interface {
	// Configure는 파이프라인 전체를 실행하고 파일을 다시 씁니다
	Configure(ctx context.Context, request *entities.NetworkRequest) (*entities.ReconcileResult, error)

	// Check는 파일을 수정하지 않고 병합 결과만 계산합니다
	Check(ctx context.Context, request *entities.NetworkRequest) (*entities.ReconcileResult, error)

	// Validate는 기록된 파일이 요청 상태와 일치하는지 검증합니다
	Validate(ctx context.Context, request *entities.NetworkRequest) error

	// Current는 관리 파일의 현재 파싱 상태를 반환합니다
	Current(ctx context.Context) (entities.Registry, []string, error)
}

// NetworkRollbacker는 네트워크 설정 롤백을 처리하는 인터페이스입니다
type NetworkRollbacker interface {
	// Rollback은 관리 파일을 가장 최근 백업으로 되돌립니다
	Rollback(ctx context.Context) error
}
