package services

import (
	"context"
	"fmt"
	"ifupdown-agent/internal/domain/constants"
	"ifupdown-agent/internal/domain/errors"
	"ifupdown-agent/internal/domain/interfaces"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

const (
	backupPrefix = "interfaces_"
	backupSuffix = ".bak"
)

// BackupService는 인터페이스 파일 백업을 관리하는 서비스입니다
type BackupService struct {
	fileSystem interfaces.FileSystem
	clock      interfaces.Clock
	logger     *logrus.Logger
	backupDir  string
	maxBackups int
}

// NewBackupService는 새로운 BackupService를 생성합니다
func NewBackupService(
	fs interfaces.FileSystem,
	clock interfaces.Clock,
	logger *logrus.Logger,
	backupDir string,
	maxBackups int,
) interfaces.BackupService {
	return &BackupService{
		fileSystem: fs,
		clock:      clock,
		logger:     logger,
		backupDir:  backupDir,
		maxBackups: maxBackups,
	}
}

// CreateBackup은 현재 인터페이스 파일의 백업을 생성합니다
func (s *BackupService) CreateBackup(ctx context.Context, configPath string) error {
	// 백업 디렉토리 생성
	if err := s.fileSystem.MkdirAll(s.backupDir, constants.BackupDirPermission); err != nil {
		return errors.NewSystemError("백업 디렉토리 생성 실패", err)
	}

	// 원본 파일이 없으면 백업할 것이 없음
	if !s.fileSystem.Exists(configPath) {
		s.logger.WithField("path", configPath).Debug("백업할 설정 파일이 없음")
		return nil
	}

	// 원본 파일 읽기
	content, err := s.fileSystem.ReadFile(configPath)
	if err != nil {
		return errors.NewSystemError("설정 파일 읽기 실패", err)
	}

	// 백업 파일명 생성 (예: interfaces_20250108_150405.bak)
	timestamp := s.clock.Now().Format("20060102_150405")
	backupFileName := fmt.Sprintf("%s%s%s", backupPrefix, timestamp, backupSuffix)
	backupPath := filepath.Join(s.backupDir, backupFileName)

	// 백업 파일 저장
	if err := s.fileSystem.WriteFile(backupPath, content, constants.ConfigFilePermission); err != nil {
		return errors.NewSystemError("백업 파일 저장 실패", err)
	}

	s.logger.WithFields(logrus.Fields{
		"source":      configPath,
		"backup_path": backupPath,
	}).Info("설정 백업 생성 완료")

	return nil
}

// RestoreLatest는 가장 최근 백업을 대상 경로로 복원합니다
func (s *BackupService) RestoreLatest(ctx context.Context, targetPath string) error {
	backupFiles, err := s.findBackupFiles()
	if err != nil {
		return err
	}

	if len(backupFiles) == 0 {
		return errors.NewNotFoundError("복원할 백업 파일을 찾을 수 없음")
	}

	// 파일명의 타임스탬프 덕분에 마지막 항목이 가장 최근 백업임
	latestBackup := backupFiles[len(backupFiles)-1]
	backupPath := filepath.Join(s.backupDir, latestBackup)

	content, err := s.fileSystem.ReadFile(backupPath)
	if err != nil {
		return errors.NewSystemError("백업 파일 읽기 실패", err)
	}

	if err := s.fileSystem.WriteFileAtomic(targetPath, content, constants.ConfigFilePermission); err != nil {
		return errors.NewSystemError("백업 복원 실패", err)
	}

	s.logger.WithFields(logrus.Fields{
		"backup_file": latestBackup,
		"target":      targetPath,
	}).Info("백업 복원 완료")

	return nil
}

// HasBackup은 백업이 하나 이상 존재하는지 확인합니다
func (s *BackupService) HasBackup(ctx context.Context) bool {
	backupFiles, err := s.findBackupFiles()
	if err != nil {
		s.logger.WithError(err).Error("백업 파일 검색 실패")
		return false
	}

	return len(backupFiles) > 0
}

// CleanupOldBackups는 보관 개수를 초과한 오래된 백업을 삭제합니다
func (s *BackupService) CleanupOldBackups(ctx context.Context) error {
	backupFiles, err := s.findBackupFiles()
	if err != nil {
		return err
	}

	if len(backupFiles) <= s.maxBackups {
		return nil
	}

	// 오래된 것부터 삭제 (목록은 시간순 정렬됨)
	excess := backupFiles[:len(backupFiles)-s.maxBackups]
	for _, file := range excess {
		backupPath := filepath.Join(s.backupDir, file)
		if err := s.fileSystem.Remove(backupPath); err != nil {
			return errors.NewSystemError(fmt.Sprintf("오래된 백업 삭제 실패: %s", file), err)
		}
		s.logger.WithField("backup_file", file).Debug("오래된 백업 삭제")
	}

	return nil
}

// findBackupFiles는 백업 파일들을 찾아 정렬된 목록을 반환합니다
func (s *BackupService) findBackupFiles() ([]string, error) {
	if !s.fileSystem.Exists(s.backupDir) {
		return []string{}, nil
	}

	files, err := s.fileSystem.ListFiles(s.backupDir)
	if err != nil {
		return nil, errors.NewSystemError("백업 디렉토리 읽기 실패", err)
	}

	// 백업 파일만 필터링
	var backupFiles []string
	for _, file := range files {
		if strings.HasPrefix(file, backupPrefix) && strings.HasSuffix(file, backupSuffix) {
			backupFiles = append(backupFiles, file)
		}
	}

	// 파일명 기준 정렬 (타임스탬프가 포함되어 있으므로 시간순 정렬됨)
	sort.Strings(backupFiles)

	return backupFiles, nil
}
