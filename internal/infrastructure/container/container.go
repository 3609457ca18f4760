package container

import (
	"context"
	"database/sql"
	"ifupdown-agent/internal/application/usecases"
	"ifupdown-agent/internal/domain/interfaces"
	"ifupdown-agent/internal/domain/services"
	"ifupdown-agent/internal/infrastructure/adapters"
	"ifupdown-agent/internal/infrastructure/config"
	"ifupdown-agent/internal/infrastructure/health"
	"ifupdown-agent/internal/infrastructure/network"
	"ifupdown-agent/internal/infrastructure/persistence"
	infraservices "ifupdown-agent/internal/infrastructure/services"
	"ifupdown-agent/pkg/utils"

	_ "github.com/go-sql-driver/mysql"
	"github.com/sirupsen/logrus"
)

// Container는 의존성 주입을 관리하는 컨테이너입니다
type Container struct {
	config *config.Config
	logger *logrus.Logger

	// 인프라스트럭처 어댑터들
	fileSystem      interfaces.FileSystem
	commandExecutor interfaces.CommandExecutor
	clock           interfaces.Clock
	osDetector      interfaces.OSDetector

	// 서비스들
	healthService  *health.HealthService
	lookupService  *services.InterfaceLookupService
	backupService  interfaces.BackupService
	networkFactory *network.NetworkManagerFactory

	// 레포지토리
	repository interfaces.NetworkRequestRepository

	// 유스케이스
	applyNetworkUseCase *usecases.ApplyNetworkUseCase
	pruneNetworkUseCase *usecases.PruneNetworkUseCase

	// 데이터베이스
	db *sql.DB
}

// NewContainer는 새로운 Container를 생성합니다
func NewContainer(cfg *config.Config, logger *logrus.Logger) (*Container, error) {
	container := &Container{
		config: cfg,
		logger: logger,
	}

	if err := container.initializeInfrastructure(); err != nil {
		return nil, err
	}

	if err := container.initializeServices(); err != nil {
		return nil, err
	}

	if err := container.initializeUseCases(); err != nil {
		return nil, err
	}

	return container, nil
}

// initializeInfrastructure는 인프라스트럭처 컴포넌트들을 초기화합니다
func (c *Container) initializeInfrastructure() error {
	// 기본 어댑터들 초기화
	c.fileSystem = adapters.NewRealFileSystem()
	c.commandExecutor = adapters.NewRealCommandExecutor()
	c.clock = adapters.NewRealClock()
	c.osDetector = adapters.NewRealOSDetector(c.fileSystem)

	// 데이터베이스 연결
	dsn := c.buildDSN()
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return err
	}

	// 연결 풀 설정
	db.SetMaxOpenConns(c.config.Database.MaxOpenConns)
	db.SetMaxIdleConns(c.config.Database.MaxIdleConns)
	db.SetConnMaxLifetime(c.config.Database.MaxLifetime)

	// 연결 테스트 (기동 직후에는 DB가 아직 준비되지 않았을 수 있으므로 재시도)
	retryConfig := utils.RetryConfig{
		MaxAttempts:  c.config.Agent.MaxRetries,
		InitialDelay: c.config.Agent.RetryDelay,
		MaxDelay:     c.config.Agent.PollInterval,
		Multiplier:   2.0,
	}
	if err := utils.RetryWithBackoff(context.Background(), retryConfig, db.Ping); err != nil {
		return err
	}

	c.db = db

	// 레포지토리 초기화
	c.repository = persistence.NewMySQLRepository(c.db, c.logger)

	return nil
}

// initializeServices는 서비스들을 초기화합니다
func (c *Container) initializeServices() error {
	// 헬스 서비스
	c.healthService = health.NewHealthService(c.clock, c.logger)

	// 호스트 인터페이스 조회 서비스
	c.lookupService = services.NewInterfaceLookupService(c.fileSystem)

	// 백업 서비스
	c.backupService = infraservices.NewBackupService(
		c.fileSystem,
		c.clock,
		c.logger,
		c.config.Agent.BackupDirectory,
		c.config.Agent.MaxBackups,
	)

	// 네트워크 관리자 팩토리
	c.networkFactory = network.NewNetworkManagerFactory(
		c.osDetector,
		c.commandExecutor,
		c.fileSystem,
		c.backupService,
		c.logger,
		c.config.Agent.InterfacesPath,
		c.config.Agent.ReloadEnabled,
	)

	return nil
}

// initializeUseCases는 유스케이스들을 초기화합니다
func (c *Container) initializeUseCases() error {
	// 네트워크 설정자 생성
	configurer, err := c.networkFactory.CreateNetworkConfigurer()
	if err != nil {
		return err
	}

	// 롤백 관리자 생성
	rollbacker, err := c.networkFactory.CreateNetworkRollbacker()
	if err != nil {
		return err
	}

	// 네트워크 반영 유스케이스
	c.applyNetworkUseCase = usecases.NewApplyNetworkUseCase(
		c.repository,
		configurer,
		rollbacker,
		c.lookupService,
		c.logger,
		c.config.Agent.DryRun,
	)

	// 고아 인터페이스 정리 유스케이스
	c.pruneNetworkUseCase = usecases.NewPruneNetworkUseCase(
		c.repository,
		configurer,
		c.logger,
		c.config.Agent.DryRun,
	)

	return nil
}

// buildDSN은 데이터베이스 연결 문자열을 생성합니다
func (c *Container) buildDSN() string {
	cfg := c.config.Database
	return cfg.User + ":" + cfg.Password + "@tcp(" + cfg.Host + ":" + cfg.Port + ")/" + cfg.Database + "?parseTime=true"
}

// GetConfig는 설정을 반환합니다
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetHealthService는 헬스 서비스를 반환합니다
func (c *Container) GetHealthService() *health.HealthService {
	return c.healthService
}

// GetOSDetector는 OS 감지기를 반환합니다
func (c *Container) GetOSDetector() interfaces.OSDetector {
	return c.osDetector
}

// GetApplyNetworkUseCase는 네트워크 반영 유스케이스를 반환합니다
func (c *Container) GetApplyNetworkUseCase() *usecases.ApplyNetworkUseCase {
	return c.applyNetworkUseCase
}

// GetPruneNetworkUseCase는 고아 인터페이스 정리 유스케이스를 반환합니다
func (c *Container) GetPruneNetworkUseCase() *usecases.PruneNetworkUseCase {
	return c.pruneNetworkUseCase
}

// Close는 컨테이너를 정리합니다
func (c *Container) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}
