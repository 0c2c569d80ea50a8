package object

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"hiring-backend/internal/shared/util"
)

// Store archives exported report documents.
type Store interface {
	Put(ctx context.Context, key string, contentType string, r io.Reader) (sizeBytes int64, err error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// ReportKey builds the archive key for a report: reports/YYYY/MM/<session>/<digest12>_<file>.
func ReportKey(sessionID, fileName string, data []byte, at time.Time) (string, error) {
	name, err := util.SanitizeFileName(fileName)
	if err != nil {
		return "", fmt.Errorf("report key: %w", err)
	}
	session := strings.TrimSpace(sessionID)
	if session == "" || strings.ContainsAny(session, `/\`) {
		return "", fmt.Errorf("report key: invalid session id %q", sessionID)
	}
	digest := util.ContentDigest(data)[:12]
	at = at.UTC()
	return path.Join("reports", at.Format("2006"), at.Format("01"), session, digest+"_"+name), nil
}
