package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"ifupdown-agent/internal/application/polling"
	"ifupdown-agent/internal/application/usecases"
	"ifupdown-agent/internal/domain/interfaces"
	"ifupdown-agent/internal/infrastructure/config"
	"ifupdown-agent/internal/infrastructure/container"
	"ifupdown-agent/internal/infrastructure/metrics"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

func main() {
	// 로거 초기화
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	// LOG_LEVEL 환경 변수 설정
	logLevelStr := os.Getenv("LOG_LEVEL")
	if logLevelStr != "" {
		logLevel, err := logrus.ParseLevel(logLevelStr)
		if err != nil {
			logger.WithError(err).Warnf("Unknown LOG_LEVEL value: %s. Using default Info level.", logLevelStr)
			logger.SetLevel(logrus.InfoLevel) // Fallback to Info
		} else {
			logger.SetLevel(logLevel)
		}
	} else {
		logger.SetLevel(logrus.InfoLevel) // Default to Info if not set
	}

	// 설정 로드 (CONFIG_FILE이 지정되면 해당 YAML 파일이 환경 변수 값을 덮어씀)
	var configLoader config.ConfigLoader
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		configLoader = config.NewFileConfigLoader(path)
	} else {
		configLoader = config.NewEnvironmentConfigLoader()
	}

	cfg, err := configLoader.Load()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	// 의존성 주입 컨테이너 생성
	appContainer, err := container.NewContainer(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create dependency injection container")
	}
	defer func() {
		if err := appContainer.Close(); err != nil {
			logger.WithError(err).Error("Failed to cleanup container")
		}
	}()

	// 애플리케이션 시작
	app := NewApplication(appContainer, logger)
	if err := app.Run(); err != nil {
		logger.WithError(err).Fatal("Failed to run application")
	}
}

// Application은 메인 애플리케이션 구조체입니다
type Application struct {
	container    *container.Container
	logger       *logrus.Logger
	applyUseCase *usecases.ApplyNetworkUseCase
	pruneUseCase *usecases.PruneNetworkUseCase
	healthServer *http.Server
	osType       interfaces.OSType
}

// NewApplication은 새로운 Application을 생성합니다
func NewApplication(container *container.Container, logger *logrus.Logger) *Application {
	return &Application{
		container:    container,
		logger:       logger,
		applyUseCase: container.GetApplyNetworkUseCase(),
		pruneUseCase: container.GetPruneNetworkUseCase(),
	}
}

// Run은 애플리케이션을 실행합니다
func (a *Application) Run() error {
	cfg := a.container.GetConfig()

	// OS 타입 감지 및 Info 로그 출력
	osDetector := a.container.GetOSDetector()
	osType, err := osDetector.DetectOS()
	if err != nil {
		return fmt.Errorf("failed to detect OS type: %w", err)
	}
	a.osType = osType
	a.logger.WithField("os_type", osType).Info("Operating system detected")
	a.container.GetHealthService().SetNetworkManager("ifupdown")

	// 에이전트 정보 메트릭 설정
	nodeName, err := a.resolveNodeName()
	if err != nil {
		return fmt.Errorf("failed to resolve node name: %w", err)
	}
	metrics.SetAgentInfo("0.3.0", string(osType), nodeName)

	// 헬스체크 서버 시작
	if err := a.startHealthServer(cfg.Health.Port); err != nil {
		return err
	}

	// 컨텍스트 및 시그널 핸들링 설정
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// 폴링 전략 설정
	strategy := a.buildPollingStrategy(cfg)
	pollingController := polling.NewPollingController(strategy, a.logger)

	a.logger.WithField("node_name", nodeName).Info("ifupdown agent started")

	// 시그널 처리를 위한 goroutine
	go func() {
		<-sigChan
		a.logger.Info("Received shutdown signal")
		cancel()
	}()

	// 폴링 시작
	err = pollingController.Start(ctx, func(ctx context.Context) error {
		cycleErr := a.processNetworkRequests(ctx)
		if cycleErr != nil {
			a.logger.WithError(cycleErr).Error("Failed to process network requests")
			a.container.GetHealthService().UpdateDBHealth(false, cycleErr)
			metrics.SetDBConnectionStatus(false)
			return cycleErr
		}
		a.container.GetHealthService().UpdateDBHealth(true, nil)
		metrics.SetDBConnectionStatus(true)
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	a.logger.Info("ifupdown agent stopped")
	return a.shutdown()
}

// buildPollingStrategy는 설정된 전략 이름에 맞는 폴링 전략을 생성합니다
func (a *Application) buildPollingStrategy(cfg *config.Config) polling.Strategy {
	interval := cfg.Agent.PollInterval

	switch cfg.Agent.PollStrategy {
	case config.PollStrategyFixed:
		a.logger.WithField("interval", interval).Info("Fixed interval polling enabled")
		return polling.NewFixedIntervalStrategy(interval)

	case config.PollStrategyAdaptive:
		a.logger.WithFields(logrus.Fields{
			"min_interval":  interval,
			"max_interval":  5 * interval,
			"idle_interval": 10 * interval,
		}).Info("Adaptive polling enabled")
		return polling.NewAdaptiveStrategy(interval, 5*interval, 10*interval, a.logger)

	default:
		// 유효성 검증을 통과한 나머지 값은 backoff
		a.logger.WithFields(logrus.Fields{
			"base_interval": interval,
			"max_interval":  10 * interval,
			"multiplier":    2.0,
		}).Info("Exponential backoff polling enabled")
		return polling.NewExponentialBackoffStrategy(interval, 10*interval, 2.0, a.logger)
	}
}

// startHealthServer는 헬스체크 서버를 시작합니다
func (a *Application) startHealthServer(port string) error {
	healthService := a.container.GetHealthService()

	// HTTP 핸들러 설정
	mux := http.NewServeMux()
	mux.Handle("/", healthService)
	mux.Handle("/metrics", promhttp.Handler())

	a.healthServer = &http.Server{
		Addr:    ":" + port,
		Handler: mux,
	}

	go func() {
		a.logger.WithField("port", port).Info("Health check server started (with /metrics)")
		if err := a.healthServer.ListenAndServe(); err != http.ErrServerClosed {
			a.logger.WithError(err).Error("Health check server failed")
		}
	}()

	return nil
}

// processNetworkRequests는 한 폴링 사이클 동안 요청 반영과 고아 정리를 수행합니다
func (a *Application) processNetworkRequests(ctx context.Context) error {
	startTime := time.Now()

	nodeName, err := a.resolveNodeName()
	if err != nil {
		return err
	}

	// 1. 대기 중인 요청 반영 및 드리프트 감시
	applyOutput, err := a.applyUseCase.Execute(ctx, usecases.ApplyNetworkInput{
		NodeName: nodeName,
	})
	if err != nil {
		return err
	}

	// 2. 고아 인터페이스 정리
	pruneOutput, err := a.pruneUseCase.Execute(ctx, usecases.PruneNetworkInput{
		NodeName: nodeName,
	})
	if err != nil {
		a.logger.WithError(err).Error("Failed to prune orphaned interfaces")
		// 정리 실패는 치명적이지 않으므로 빈 결과로 초기화
		pruneOutput = &usecases.PruneNetworkOutput{
			Errors: []error{err},
		}
	}

	// 헬스체크 통계 업데이트
	healthService := a.container.GetHealthService()
	for i := 0; i < applyOutput.AppliedCount; i++ {
		healthService.IncrementAppliedRequests()
	}
	for i := 0; i < applyOutput.FailedCount; i++ {
		healthService.IncrementFailedRequests()
	}
	for i := 0; i < applyOutput.BlockedCount; i++ {
		healthService.IncrementBlockedWrites()
	}

	// 거부된 쓰기가 있으면 인터페이스 파일 컴포넌트를 비정상으로 표시
	if applyOutput.BlockedCount > 0 {
		healthService.UpdateFileHealth(false, fmt.Errorf("%d write(s) blocked by unmanaged lines", applyOutput.BlockedCount))
	} else if applyOutput.AppliedCount > 0 {
		healthService.UpdateFileHealth(true, nil)
	}

	// 실제로 처리된 것이 있을 때만 로그 출력
	if applyOutput.AppliedCount > 0 || applyOutput.FailedCount > 0 || pruneOutput.TotalPruned > 0 {
		a.logger.WithFields(logrus.Fields{
			"applied":      applyOutput.AppliedCount,
			"failed":       applyOutput.FailedCount,
			"blocked":      applyOutput.BlockedCount,
			"drifts":       applyOutput.DriftCount,
			"pending":      applyOutput.TotalCount,
			"pruned":       pruneOutput.TotalPruned,
			"prune_errors": len(pruneOutput.Errors),
		}).Info("Network processing completed")
	}

	// 정리 에러가 있다면 별도로 로깅
	for _, pruneErr := range pruneOutput.Errors {
		a.logger.WithError(pruneErr).Warn("Error occurred during interface pruning")
	}

	// 폴링 사이클 메트릭 기록
	metrics.RecordPollingCycle(time.Since(startTime).Seconds())

	return nil
}

// resolveNodeName은 DB 조회에 사용할 노드 이름을 결정합니다
func (a *Application) resolveNodeName() (string, error) {
	if name := a.container.GetConfig().Agent.NodeName; name != "" {
		return name, nil
	}

	hostname, err := os.Hostname()
	if err != nil {
		return "", err
	}

	// .novalocal 또는 다른 도메인 접미사 제거
	original := hostname
	if idx := strings.Index(hostname, "."); idx != -1 {
		hostname = hostname[:idx]
	}

	if original != hostname {
		a.logger.WithFields(logrus.Fields{
			"original_hostname": original,
			"cleaned_hostname":  hostname,
		}).Debug("Hostname domain suffix removed")
	}

	return hostname, nil
}

// shutdown은 애플리케이션을 정리하고 종료합니다
func (a *Application) shutdown() error {
	// 헬스체크 서버 정리
	if a.healthServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()

		if err := a.healthServer.Shutdown(shutdownCtx); err != nil {
			a.logger.WithError(err).Error("Failed to shutdown health check server")
		}
	}

	return nil
}
