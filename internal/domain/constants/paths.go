package constants

// 시스템 경로 상수들
const (
	// 관리 대상 인터페이스 파일 (Debian ifupdown)
	DefaultInterfacesFilePath = "/etc/network/interfaces"

	// OS 감지 관련 경로
	OSReleaseFile = "/host/etc/os-release"

	// 백업 디렉토리
	DefaultBackupDir = "/var/lib/ifupdown-agent/backups"

	// 시스템 네트워크 경로
	SysClassNet = "/sys/class/net"
)

// 관리 파일 관련 상수들
const (
	// 생성되는 파일의 첫 줄에 기록되는 헤더
	ManagedFileHeader = "# This file is controlled by ifupdown-agent"

	// 패밀리 블록 내부 지시어 들여쓰기
	DirectiveIndent = "    "

	// 파일 권한
	ConfigFilePermission = 0644
	BackupDirPermission  = 0755

	// 타임아웃
	DefaultCommandTimeout = 30 // seconds
)

// 기본값 상수들
const (
	// 데이터베이스 기본값
	DefaultDBHost = "localhost"
	DefaultDBPort = "3306"
	DefaultDBName = "ifupdown"

	// 에이전트 기본값
	DefaultPollInterval = "30s"
	DefaultLogLevel     = "info"
	DefaultHealthPort   = "8080"
	DefaultMaxBackups   = 5
)

// ProtectedInterfaces는 요청 행이 없어도 정리 대상에서 제외되는 이름들입니다
var ProtectedInterfaces = []string{"lo"}
