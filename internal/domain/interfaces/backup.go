package interfaces

import "context"

// BackupService는 인터페이스 파일의 백업을 관리하는 인터페이스입니다
type BackupService interface {
	// CreateBackup은 지정된 설정 파일의 백업을 생성합니다
	CreateBackup(ctx context.Context, configPath string) error

	// RestoreLatest는 가장 최근 백업을 대상 경로로 복원합니다
	RestoreLatest(ctx context.Context, targetPath string) error

	// HasBackup은 백업이 하나 이상 존재하는지 확인합니다
	HasBackup(ctx context.Context) bool

	// CleanupOldBackups는 보관 개수를 초과한 오래된 백업을 삭제합니다
	CleanupOldBackups(ctx context.Context) error
}
