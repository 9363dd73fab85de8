package database

import (
	"database/sql/driver"
	"errors"
	"net"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// IsNotFound reports whether err means the row simply does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsConnectionError reports whether err came from the database being
// unreachable rather than from the query itself.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Class() {
		case "08", // connection exception
			"53", // insufficient resources
			"57": // operator intervention (admin shutdown, cannot connect now)
			return true
		}
		return false
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}
