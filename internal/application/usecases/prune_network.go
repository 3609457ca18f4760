package usecases

import (
	"context"
	"fmt"
	"ifupdown-agent/internal/domain/constants"
	"ifupdown-agent/internal/domain/entities"
	"ifupdown-agent/internal/domain/errors"
	"ifupdown-agent/internal/domain/interfaces"
	"ifupdown-agent/internal/infrastructure/metrics"
	"sort"

	"github.com/sirupsen/logrus"
)

// PruneNetworkInput은 고아 인터페이스 정리 유스케이스의 입력 데이터입니다
type PruneNetworkInput struct {
	NodeName string
}

// PruneNetworkOutput은 고아 인터페이스 정리 유스케이스의 출력 데이터입니다
type PruneNetworkOutput struct {
	PrunedInterfaces []string
	TotalPruned      int
	Errors           []error
}

// PruneNetworkUseCase는 요청 행이 없는 고아 인터페이스를 파일에서 제거하는 유스케이스입니다
type PruneNetworkUseCase struct {
	repository interfaces.NetworkRequestRepository
	configurer interfaces.NetworkConfigurer
	logger     *logrus.Logger
	dryRun     bool
}

// NewPruneNetworkUseCase는 새로운 PruneNetworkUseCase를 생성합니다
func NewPruneNetworkUseCase(
	repo interfaces.NetworkRequestRepository,
	configurer interfaces.NetworkConfigurer,
	logger *logrus.Logger,
	dryRun bool,
) *PruneNetworkUseCase {
	return &PruneNetworkUseCase{
		repository: repo,
		configurer: configurer,
		logger:     logger,
		dryRun:     dryRun,
	}
}

// Execute는 고아 인터페이스 정리 유스케이스를 실행합니다
func (uc *PruneNetworkUseCase) Execute(ctx context.Context, input PruneNetworkInput) (*PruneNetworkOutput, error) {
	uc.logger.WithFields(logrus.Fields{
		"node_name": input.NodeName,
	}).Debug("고아 인터페이스 정리 프로세스 시작")

	output := &PruneNetworkOutput{
		PrunedInterfaces: []string{},
		Errors:           []error{},
	}

	orphans, err := uc.findOrphanedInterfaces(ctx, input.NodeName)
	if err != nil {
		return nil, err
	}

	if len(orphans) == 0 {
		uc.logger.Debug("정리 대상 고아 인터페이스가 없습니다")
		return output, nil
	}

	uc.logger.WithFields(logrus.Fields{
		"node_name":           input.NodeName,
		"orphaned_interfaces": orphans,
	}).Info("고아 인터페이스 감지 완료 - 정리 프로세스 시작")

	for _, name := range orphans {
		if err := uc.pruneInterface(ctx, name); err != nil {
			uc.logger.WithFields(logrus.Fields{
				"interface": name,
				"error":     err.Error(),
			}).Error("고아 인터페이스 제거 실패")
			output.Errors = append(output.Errors, fmt.Errorf("인터페이스 %s 제거 실패: %w", name, err))
			continue
		}

		output.PrunedInterfaces = append(output.PrunedInterfaces, name)
		output.TotalPruned++
	}

	return output, nil
}

// findOrphanedInterfaces는 파일에는 있지만 요청 행이 없는 인터페이스들을 찾습니다
func (uc *PruneNetworkUseCase) findOrphanedInterfaces(ctx context.Context, nodeName string) ([]string, error) {
	registry, _, err := uc.configurer.Current(ctx)
	if err != nil {
		return nil, fmt.Errorf("현재 파일 상태 조회 실패: %w", err)
	}

	requests, err := uc.repository.GetAllNodeRequests(ctx, nodeName)
	if err != nil {
		return nil, fmt.Errorf("노드 요청 조회 실패: %w", err)
	}

	// 상태와 무관하게 요청 행이 존재하는 이름은 관리 대상임
	known := make(map[string]bool, len(requests))
	for _, request := range requests {
		known[request.Name] = true
	}

	var orphans []string
	for name, entry := range registry {
		// 제거 마커는 이미 비어 있으므로 정리할 것이 없음
		if entry.IsEmpty() {
			continue
		}
		if uc.isProtected(name) {
			continue
		}
		if known[name] {
			continue
		}
		orphans = append(orphans, name)
	}

	sort.Strings(orphans)
	return orphans, nil
}

// pruneInterface는 인터페이스 하나를 absent 요청으로 파일에서 제거합니다
func (uc *PruneNetworkUseCase) pruneInterface(ctx context.Context, name string) error {
	// 고아 정리는 절대 force를 사용하지 않음: 분류되지 않은 라인이
	// 있는 파일은 사람이 직접 확인해야 함
	request := &entities.NetworkRequest{
		Name:  name,
		State: entities.StateAbsent,
	}

	if uc.dryRun {
		result, err := uc.configurer.Check(ctx, request)
		if err != nil {
			return err
		}
		uc.logger.WithFields(logrus.Fields{
			"interface": name,
			"changed":   result.Changed,
		}).Info("드라이런: 고아 인터페이스를 제거하지 않음")
		return nil
	}

	if _, err := uc.configurer.Configure(ctx, request); err != nil {
		if errors.IsConflictError(err) {
			uc.logger.WithField("interface", name).Warn("분류되지 않은 라인 때문에 고아 정리 거부됨")
		}
		return err
	}

	metrics.OrphanedInterfacesPruned.Inc()
	uc.logger.WithField("interface", name).Info("고아 인터페이스 제거 완료")
	return nil
}

// isProtected는 정리 대상에서 제외되는 인터페이스인지 확인합니다
func (uc *PruneNetworkUseCase) isProtected(name string) bool {
	for _, protected := range constants.ProtectedInterfaces {
		if name == protected {
			return true
		}
	}
	return false
}
