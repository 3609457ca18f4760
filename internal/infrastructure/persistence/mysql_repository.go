package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"ifupdown-agent/internal/domain/entities"
	"ifupdown-agent/internal/domain/errors"
	"ifupdown-agent/internal/domain/interfaces"
	"ifupdown-agent/internal/infrastructure/metrics"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/sirupsen/logrus"
)

// requestColumns는 interface_request 테이블에서 조회하는 컬럼 목록입니다
const requestColumns = `
	id, node_name, iface_name, state, auto_up, hotplug, iface_type,
	addr_family, address, netmask, gateway, dns_nameservers, updown,
	force_overwrite, status`

// MySQLRepository는 MySQL 기반의 NetworkRequestRepository 구현체입니다
type MySQLRepository struct {
	db     *sql.DB
	logger *logrus.Logger
}

// NewMySQLRepository는 새로운 MySQLRepository를 생성합니다
func NewMySQLRepository(db *sql.DB, logger *logrus.Logger) interfaces.NetworkRequestRepository {
	return &MySQLRepository{
		db:     db,
		logger: logger,
	}
}

// GetPendingRequests는 특정 노드의 처리 대기 중인 요청들을 조회합니다
func (r *MySQLRepository) GetPendingRequests(ctx context.Context, nodeName string) ([]entities.NetworkRequest, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM interface_request
		WHERE status = 'pending'
		AND node_name = ?
		ORDER BY created_at
		LIMIT 10
	`

	return r.queryRequests(ctx, "get_pending", query, nodeName)
}

// GetAppliedRequests는 특정 노드의 반영 완료된 요청들을 조회합니다 (드리프트 감시용)
func (r *MySQLRepository) GetAppliedRequests(ctx context.Context, nodeName string) ([]entities.NetworkRequest, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM interface_request
		WHERE status = 'applied'
		AND node_name = ?
	`

	return r.queryRequests(ctx, "get_applied", query, nodeName)
}

// GetAllNodeRequests는 특정 노드의 모든 요청들을 조회합니다 (상태 무관, 고아 정리용)
func (r *MySQLRepository) GetAllNodeRequests(ctx context.Context, nodeName string) ([]entities.NetworkRequest, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM interface_request
		WHERE node_name = ?
	`

	return r.queryRequests(ctx, "get_all", query, nodeName)
}

// UpdateRequestStatus는 요청의 처리 상태를 업데이트합니다
func (r *MySQLRepository) UpdateRequestStatus(ctx context.Context, requestID int, status entities.RequestStatus) error {
	query := `
		UPDATE interface_request
		SET status = ?, updated_at = NOW()
		WHERE id = ?
	`

	start := time.Now()
	result, err := r.db.ExecContext(ctx, query, status.String(), requestID)
	metrics.RecordDBQuery("update_status", time.Since(start).Seconds())
	if err != nil {
		return errors.NewSystemError("상태 업데이트 실패", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewSystemError("영향받은 행 확인 실패", err)
	}

	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("요청을 찾을 수 없음: ID=%d", requestID))
	}

	r.logger.WithFields(logrus.Fields{
		"request_id": requestID,
		"status":     status.String(),
	}).Info("요청 상태 업데이트 완료")

	return nil
}

// queryRequests는 요청 조회 쿼리를 실행하고 행들을 엔티티로 변환합니다
func (r *MySQLRepository) queryRequests(ctx context.Context, queryType, query string, args ...interface{}) ([]entities.NetworkRequest, error) {
	start := time.Now()
	rows, err := r.db.QueryContext(ctx, query, args...)
	metrics.RecordDBQuery(queryType, time.Since(start).Seconds())
	if err != nil {
		return nil, errors.NewSystemError("데이터베이스 조회 실패", err)
	}
	defer rows.Close()

	var requests []entities.NetworkRequest

	for rows.Next() {
		request, err := r.scanRequest(rows)
		if err != nil {
			r.logger.WithError(err).Error("행 스캔 실패")
			continue
		}
		requests = append(requests, request)
	}

	if err = rows.Err(); err != nil {
		return nil, errors.NewSystemError("결과 처리 중 오류", err)
	}

	return requests, nil
}

// scanRequest는 한 행을 NetworkRequest로 변환합니다
func (r *MySQLRepository) scanRequest(rows *sql.Rows) (entities.NetworkRequest, error) {
	var request entities.NetworkRequest
	var state, status string
	var autoUp, hotplug, forceOverwrite int
	var address, netmask, gateway, nameservers, updown sql.NullString

	err := rows.Scan(
		&request.ID,
		&request.NodeName,
		&request.Name,
		&state,
		&autoUp,
		&hotplug,
		&request.IfaceType,
		&request.AddrFamily,
		&address,
		&netmask,
		&gateway,
		&nameservers,
		&updown,
		&forceOverwrite,
		&status,
	)
	if err != nil {
		return entities.NetworkRequest{}, err
	}

	request.State = entities.RequestState(state)
	request.Auto = autoUp != 0
	request.Hotplug = hotplug != 0
	request.Force = forceOverwrite != 0
	request.Status = statusFromString(status)

	if address.Valid {
		request.Address = address.String
	}
	if netmask.Valid {
		request.Netmask = netmask.String
	}
	if gateway.Valid {
		request.Gateway = gateway.String
	}
	if nameservers.Valid {
		request.Nameservers = nameservers.String
	}
	if updown.Valid {
		request.Updown = splitUpdown(updown.String)
	}

	return request, nil
}

// splitUpdown은 줄바꿈으로 구분된 updown 명령 컬럼을 목록으로 변환합니다
func splitUpdown(value string) []string {
	var commands []string
	for _, line := range strings.Split(value, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" {
			commands = append(commands, trimmed)
		}
	}
	return commands
}

// statusFromString은 데이터베이스 상태 문자열을 RequestStatus로 변환합니다
func statusFromString(value string) entities.RequestStatus {
	switch value {
	case "applied":
		return entities.StatusApplied
	case "failed":
		return entities.StatusFailed
	default:
		return entities.StatusPending
	}
}
