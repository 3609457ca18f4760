package interfaces

import (
	"context"

	"ifupdown-agent/internal/domain/entities"
)

// NetworkRequestRepository는 인터페이스 요청 저장소 인터페이스입니다
type NetworkRequestRepository interface {
	// GetPendingRequests는 특정 노드의 처리 대기 중인 요청들을 조회합니다
	GetPendingRequests(ctx context.Context, nodeName string) ([]entities.NetworkRequest, error)

	// GetAppliedRequests는 특정 노드의 반영 완료된 요청들을 조회합니다 (드리프트 감지용)
	GetAppliedRequests(ctx context.Context, nodeName string) ([]entities.NetworkRequest, error)

	// GetAllNodeRequests는 특정 노드의 모든 요청들을 조회합니다 (고아 정리용)
	GetAllNodeRequests(ctx context.Context, nodeName string) ([]entities.NetworkRequest, error)

	// UpdateRequestStatus는 요청의 처리 상태를 업데이트합니다
	UpdateRequestStatus(ctx context.Context, requestID int, status entities.RequestStatus) error
}
