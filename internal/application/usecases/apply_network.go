package usecases

import (
	"context"
	"ifupdown-agent/internal/domain/entities"
	"ifupdown-agent/internal/domain/errors"
	"ifupdown-agent/internal/domain/interfaces"
	"ifupdown-agent/internal/domain/services"
	"ifupdown-agent/internal/infrastructure/metrics"
	"time"

	"github.com/sirupsen/logrus"
)

// ApplyNetworkUseCase는 대기 중인 요청을 인터페이스 파일에 반영하고
// 반영 완료된 요청의 드리프트를 감시하는 유스케이스입니다
type ApplyNetworkUseCase struct {
	repository    interfaces.NetworkRequestRepository
	configurer    interfaces.NetworkConfigurer
	rollbacker    interfaces.NetworkRollbacker
	lookupService *services.InterfaceLookupService
	logger        *logrus.Logger
	dryRun        bool
}

// NewApplyNetworkUseCase는 새로운 ApplyNetworkUseCase를 생성합니다
func NewApplyNetworkUseCase(
	repo interfaces.NetworkRequestRepository,
	configurer interfaces.NetworkConfigurer,
	rollbacker interfaces.NetworkRollbacker,
	lookup *services.InterfaceLookupService,
	logger *logrus.Logger,
	dryRun bool,
) *ApplyNetworkUseCase {
	return &ApplyNetworkUseCase{
		repository:    repo,
		configurer:    configurer,
		rollbacker:    rollbacker,
		lookupService: lookup,
		logger:        logger,
		dryRun:        dryRun,
	}
}

// ApplyNetworkInput은 유스케이스의 입력 파라미터입니다
type ApplyNetworkInput struct {
	NodeName string
}

// ApplyNetworkOutput은 유스케이스의 출력 결과입니다
type ApplyNetworkOutput struct {
	AppliedCount int // 파일에 반영된 요청 수 (드리프트 재반영 포함)
	FailedCount  int // 실패하거나 거부된 요청 수 (거부 포함)
	BlockedCount int // 분류되지 않은 라인 때문에 거부된 요청 수
	DriftCount   int // 감지된 드리프트 수
	TotalCount   int // 조회된 대기 요청 수
}

// Execute는 네트워크 반영 유스케이스를 실행합니다
func (uc *ApplyNetworkUseCase) Execute(ctx context.Context, input ApplyNetworkInput) (*ApplyNetworkOutput, error) {
	// 1. 해당 노드의 대기 중인 요청 조회
	pending, err := uc.repository.GetPendingRequests(ctx, input.NodeName)
	if err != nil {
		return nil, errors.NewSystemError("대기 중인 요청 조회 실패", err)
	}

	if len(pending) > 0 {
		uc.logger.WithFields(logrus.Fields{
			"node_name":        input.NodeName,
			"pending_requests": len(pending),
		}).Info("처리할 요청 발견")
	}

	output := &ApplyNetworkOutput{TotalCount: len(pending)}

	// 2. 각 요청 처리
	for i := range pending {
		request := &pending[i]
		uc.applyRequest(ctx, request, output)
	}

	// 3. 반영 완료된 요청의 드리프트 감시
	uc.scanForDrift(ctx, input.NodeName, output)

	return output, nil
}

// applyRequest는 요청 한 건을 처리하고 결과를 집계합니다
func (uc *ApplyNetworkUseCase) applyRequest(ctx context.Context, request *entities.NetworkRequest, output *ApplyNetworkOutput) {
	start := time.Now()
	err := uc.processRequest(ctx, request)
	duration := time.Since(start).Seconds()

	if err != nil {
		output.FailedCount++
		status := "failed"
		if errors.IsConflictError(err) {
			status = "blocked"
			output.BlockedCount++
		}
		metrics.RecordRequestProcessing(request.Name, status, duration)

		uc.logger.WithFields(logrus.Fields{
			"request_id": request.ID,
			"interface":  request.Name,
			"error":      err,
		}).Error("요청 반영 실패")

		uc.markFailed(ctx, request)
		return
	}

	output.AppliedCount++
	metrics.RecordRequestProcessing(request.Name, "applied", duration)
}

// processRequest는 개별 요청을 검증하고 파일에 반영합니다
func (uc *ApplyNetworkUseCase) processRequest(ctx context.Context, request *entities.NetworkRequest) error {
	// 1. 유효성 검증
	if err := request.Validate(); err != nil {
		return errors.NewValidationError("요청 유효성 검증 실패", err)
	}

	// 파일 기록은 인터페이스 장착보다 먼저 이루어질 수 있으므로 경고만 남김
	if request.State == entities.StatePresent && !uc.lookupService.ExistsOnHost(request.Name) {
		uc.logger.WithField("interface", request.Name).Warn("호스트에 아직 존재하지 않는 인터페이스에 대한 요청")
	}

	uc.logger.WithFields(logrus.Fields{
		"request_id": request.ID,
		"interface":  request.Name,
		"state":      request.State,
	}).Info("요청 반영 시작")

	// 드라이런 모드에서는 병합 결과만 계산
	if uc.dryRun {
		result, err := uc.configurer.Check(ctx, request)
		if err != nil {
			return err
		}
		uc.logger.WithFields(logrus.Fields{
			"interface": request.Name,
			"changed":   result.Changed,
		}).Info("드라이런: 파일을 수정하지 않음")
		return nil
	}

	// 2. 파일에 반영
	if _, err := uc.configurer.Configure(ctx, request); err != nil {
		// 분류되지 않은 라인에 의한 거부는 파일을 건드리지 않았으므로 롤백하지 않음
		if errors.IsConflictError(err) {
			return err
		}
		if rollbackErr := uc.rollbacker.Rollback(ctx); rollbackErr != nil {
			uc.logger.WithError(rollbackErr).Error("롤백 실패")
		}
		return errors.NewNetworkError("네트워크 설정 적용 실패", err)
	}

	// 3. 기록된 파일 재검증
	if err := uc.configurer.Validate(ctx, request); err != nil {
		if rollbackErr := uc.rollbacker.Rollback(ctx); rollbackErr != nil {
			uc.logger.WithError(rollbackErr).Error("롤백 실패")
		}
		return errors.NewNetworkError("네트워크 설정 검증 실패", err)
	}

	// 4. 성공 상태로 업데이트
	if err := uc.repository.UpdateRequestStatus(ctx, request.ID, entities.StatusApplied); err != nil {
		return errors.NewSystemError("요청 상태 업데이트 실패", err)
	}
	request.MarkAsApplied()

	uc.logger.WithFields(logrus.Fields{
		"request_id": request.ID,
		"interface":  request.Name,
	}).Info("요청 반영 성공")

	return nil
}

// scanForDrift는 반영 완료된 요청들이 파일과 여전히 일치하는지 검사하고,
// 어긋난 요청은 다시 반영합니다
func (uc *ApplyNetworkUseCase) scanForDrift(ctx context.Context, nodeName string, output *ApplyNetworkOutput) {
	applied, err := uc.repository.GetAppliedRequests(ctx, nodeName)
	if err != nil {
		uc.logger.WithError(err).Error("반영 완료 요청 조회 실패")
		return
	}

	for i := range applied {
		request := &applied[i]

		result, err := uc.configurer.Check(ctx, request)
		if err != nil {
			uc.logger.WithFields(logrus.Fields{
				"request_id": request.ID,
				"interface":  request.Name,
				"error":      err,
			}).Warn("드리프트 검사 실패")
			continue
		}

		if !result.Changed {
			continue
		}

		output.DriftCount++
		metrics.RecordDrift(request.Name)
		uc.logger.WithFields(logrus.Fields{
			"request_id": request.ID,
			"interface":  request.Name,
		}).Warn("설정 드리프트 감지")

		if uc.dryRun {
			continue
		}

		uc.applyRequest(ctx, request, output)
	}
}

// markFailed는 요청을 실패 상태로 기록합니다
func (uc *ApplyNetworkUseCase) markFailed(ctx context.Context, request *entities.NetworkRequest) {
	if uc.dryRun {
		return
	}
	if err := uc.repository.UpdateRequestStatus(ctx, request.ID, entities.StatusFailed); err != nil {
		uc.logger.WithError(err).Error("요청 상태 업데이트 실패")
		return
	}
	request.MarkAsFailed()
}
