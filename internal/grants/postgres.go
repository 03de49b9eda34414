package grants

import (
	"context"
	"fmt"

	"erp-portal/internal/rbac"
	"erp-portal/internal/session"

	"github.com/jackc/pgx/v5"
)

const selectRoleGrantsSQL = `
	SELECT role, access_right_id, access_right_name
	FROM role_grants
	ORDER BY role, access_right_name
`

// Querier is the part of a pgx pool the source reads through
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresSource reads the role_grants table
type PostgresSource struct {
	db Querier
}

func NewPostgresSource(db Querier) *PostgresSource {
	return &PostgresSource{db: db}
}

func (s *PostgresSource) Name() string { return "postgres" }

func (s *PostgresSource) Load(ctx context.Context) (rbac.Catalog, error) {
	rows, err := s.db.Query(ctx, selectRoleGrantsSQL)
	if err != nil {
		return rbac.Catalog{}, fmt.Errorf(errQueryGrantsFmt, err)
	}
	defer rows.Close()

	var catalog rbac.Catalog
	index := map[session.Role]int{}
	for rows.Next() {
		var role, id, name string
		if err := rows.Scan(&role, &id, &name); err != nil {
			return rbac.Catalog{}, fmt.Errorf(errScanGrantFmt, err)
		}

		i, ok := index[session.Role(role)]
		if !ok {
			i = len(catalog.Grants)
			index[session.Role(role)] = i
			catalog.Grants = append(catalog.Grants, session.RoleGrant{Role: session.Role(role)})
		}
		catalog.Grants[i].AccessRights = append(catalog.Grants[i].AccessRights, session.AccessRight{ID: id, Name: name})
	}
	if err := rows.Err(); err != nil {
		return rbac.Catalog{}, fmt.Errorf(errQueryGrantsFmt, err)
	}

	return catalog, nil
}
