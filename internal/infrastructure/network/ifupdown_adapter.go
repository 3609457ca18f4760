package network

import (
	"context"
	"fmt"
	"ifupdown-agent/internal/domain/constants"
	"ifupdown-agent/internal/domain/entities"
	"ifupdown-agent/internal/domain/errors"
	"ifupdown-agent/internal/domain/interfaces"
	"ifupdown-agent/internal/domain/services"
	"ifupdown-agent/internal/infrastructure/metrics"
	"time"

	"github.com/sirupsen/logrus"
)

// IfupdownAdapter는 Debian ifupdown 인터페이스 파일을 관리하는
// NetworkConfigurer 및 NetworkRollbacker 구현체입니다
type IfupdownAdapter struct {
	commandExecutor interfaces.CommandExecutor
	fileSystem      interfaces.FileSystem
	backupService   interfaces.BackupService
	parser          *services.InterfacesParser
	merger          *services.InterfacesMerger
	serializer      *services.InterfacesSerializer
	logger          *logrus.Logger
	interfacesPath  string
	reloadEnabled   bool
}

// NewIfupdownAdapter는 새로운 IfupdownAdapter를 생성합니다
func NewIfupdownAdapter(
	executor interfaces.CommandExecutor,
	fs interfaces.FileSystem,
	backup interfaces.BackupService,
	logger *logrus.Logger,
	interfacesPath string,
	reloadEnabled bool,
) *IfupdownAdapter {
	return &IfupdownAdapter{
		commandExecutor: executor,
		fileSystem:      fs,
		backupService:   backup,
		parser:          services.NewInterfacesParser(),
		merger:          services.NewInterfacesMerger(),
		serializer:      services.NewInterfacesSerializer(),
		logger:          logger,
		interfacesPath:  interfacesPath,
		reloadEnabled:   reloadEnabled,
	}
}

// Configure는 요청을 관리 파일에 반영합니다. 분류되지 않은 라인이 있고
// 요청에 force가 없으면 파일을 건드리지 않고 충돌 에러를 반환합니다
func (a *IfupdownAdapter) Configure(ctx context.Context, request *entities.NetworkRequest) (*entities.ReconcileResult, error) {
	registry, ignored, err := a.readAndParse()
	if err != nil {
		return nil, err
	}

	changed, blocked := a.merger.Merge(registry, ignored, request)
	result := &entities.ReconcileResult{
		Changed:      changed,
		Registry:     registry,
		IgnoredLines: ignored,
	}

	if blocked {
		metrics.RecordBlockedWrite()
		a.logger.WithFields(logrus.Fields{
			"interface":     request.Name,
			"ignored_lines": len(ignored),
		}).Warn("분류되지 않은 라인 때문에 파일 쓰기 거부")
		return result, errors.NewUnsafeOverwriteError(a.interfacesPath, ignored)
	}

	// 쓰기 전에 기존 파일을 백업
	if err := a.backupService.CreateBackup(ctx, a.interfacesPath); err != nil {
		return result, err
	}

	// 변경 여부와 무관하게 병합된 모델 전체를 다시 기록
	text := a.serializer.Serialize(registry)
	if err := a.fileSystem.WriteFileAtomic(a.interfacesPath, []byte(text), constants.ConfigFilePermission); err != nil {
		return result, errors.NewSystemError("인터페이스 파일 쓰기 실패", err)
	}
	metrics.RecordFileRewrite()

	a.logger.WithFields(logrus.Fields{
		"interface": request.Name,
		"changed":   changed,
		"path":      a.interfacesPath,
	}).Info("인터페이스 파일 기록 완료")

	// 보관 개수를 초과한 백업 정리 (실패해도 치명적이지 않음)
	if err := a.backupService.CleanupOldBackups(ctx); err != nil {
		a.logger.WithError(err).Warn("오래된 백업 정리 실패")
	}

	if a.reloadEnabled && changed {
		if err := a.reloadInterface(ctx, request); err != nil {
			return result, err
		}
	}

	return result, nil
}

// Check는 파일을 수정하지 않고 병합 결과만 계산합니다
func (a *IfupdownAdapter) Check(ctx context.Context, request *entities.NetworkRequest) (*entities.ReconcileResult, error) {
	registry, ignored, err := a.readAndParse()
	if err != nil {
		return nil, err
	}

	changed, blocked := a.merger.Merge(registry, ignored, request)
	result := &entities.ReconcileResult{
		Changed:      changed,
		Registry:     registry,
		IgnoredLines: ignored,
	}

	if blocked {
		return result, errors.NewUnsafeOverwriteError(a.interfacesPath, ignored)
	}

	return result, nil
}

// Validate는 기록된 파일을 다시 읽어 요청 상태와 일치하는지 검증합니다
func (a *IfupdownAdapter) Validate(ctx context.Context, request *entities.NetworkRequest) error {
	registry, ignored, err := a.readAndParse()
	if err != nil {
		return err
	}

	// 기록 직후라면 같은 요청을 다시 병합해도 변경이 없어야 함
	changed, _ := a.merger.Merge(registry, ignored, request)
	if changed {
		return errors.NewValidationError(
			fmt.Sprintf("기록된 파일이 요청 상태와 일치하지 않음: %s", request.Name), nil)
	}

	return nil
}

// Current는 관리 파일의 현재 파싱 상태를 반환합니다
func (a *IfupdownAdapter) Current(ctx context.Context) (entities.Registry, []string, error) {
	return a.readAndParse()
}

// Rollback은 관리 파일을 가장 최근 백업으로 되돌립니다
func (a *IfupdownAdapter) Rollback(ctx context.Context) error {
	if err := a.backupService.RestoreLatest(ctx, a.interfacesPath); err != nil {
		return err
	}

	a.logger.WithField("path", a.interfacesPath).Info("인터페이스 파일 롤백 완료")
	return nil
}

// readAndParse는 관리 파일을 읽어 파싱합니다. 파일이 없으면 빈 상태로 시작합니다
func (a *IfupdownAdapter) readAndParse() (entities.Registry, []string, error) {
	if !a.fileSystem.Exists(a.interfacesPath) {
		registry, ignored := a.parser.Parse("")
		return registry, ignored, nil
	}

	content, err := a.fileSystem.ReadFile(a.interfacesPath)
	if err != nil {
		return nil, nil, errors.NewSystemError("인터페이스 파일 읽기 실패", err)
	}

	registry, ignored := a.parser.Parse(string(content))
	return registry, ignored, nil
}

// reloadInterface는 ifdown/ifup으로 기록된 설정을 커널에 반영합니다
func (a *IfupdownAdapter) reloadInterface(ctx context.Context, request *entities.NetworkRequest) error {
	timeout := constants.DefaultCommandTimeout * time.Second

	// 인터페이스가 이미 내려가 있으면 ifdown은 실패할 수 있음
	if _, err := a.commandExecutor.ExecuteWithTimeout(ctx, timeout, "ifdown", "--force", request.Name); err != nil {
		a.logger.WithError(err).WithField("interface", request.Name).Debug("ifdown 실패")
	}

	if request.State == entities.StateAbsent {
		return nil
	}

	if _, err := a.commandExecutor.ExecuteWithTimeout(ctx, timeout, "ifup", "--force", request.Name); err != nil {
		return errors.NewNetworkError(fmt.Sprintf("ifup 실행 실패: %s", request.Name), err)
	}

	return nil
}
