package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Schema is the full PostgreSQL schema. Referential protection is delegated
// to ON DELETE RESTRICT; the driver's foreign-key violations surface as
// sentinel.ErrReferenced through translatePQ.
const Schema = `
CREATE TABLE IF NOT EXISTS ranks (
	id              UUID PRIMARY KEY,
	abbreviation    TEXT NOT NULL,
	description     TEXT NOT NULL DEFAULT '',
	seniority_order INT  NOT NULL DEFAULT 0,
	created_at      TIMESTAMPTZ NOT NULL,
	updated_at      TIMESTAMPTZ NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS ranks_abbreviation_key ON ranks (LOWER(abbreviation));

CREATE TABLE IF NOT EXISTS agents (
	id               UUID PRIMARY KEY,
	full_name        TEXT NOT NULL,
	war_name         TEXT NOT NULL,
	rank_id          UUID NOT NULL REFERENCES ranks (id) ON DELETE RESTRICT,
	registration     TEXT NOT NULL UNIQUE,
	national_id      TEXT NOT NULL DEFAULT '',
	last_course_date DATE,
	created_at       TIMESTAMPTZ NOT NULL,
	updated_at       TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS companies (
	id         UUID PRIMARY KEY,
	legal_name TEXT NOT NULL,
	tax_id     TEXT NOT NULL UNIQUE,
	contact    TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS roles (
	id              UUID PRIMARY KEY,
	title           TEXT NOT NULL,
	abbreviation    TEXT NOT NULL DEFAULT '',
	hierarchy_order INT  NOT NULL DEFAULT 0,
	active          BOOLEAN NOT NULL DEFAULT TRUE,
	created_at      TIMESTAMPTZ NOT NULL,
	updated_at      TIMESTAMPTZ NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS roles_title_key ON roles (LOWER(title));

CREATE TABLE IF NOT EXISTS contracts (
	id          UUID PRIMARY KEY,
	number      TEXT NOT NULL UNIQUE,
	type        TEXT NOT NULL CHECK (type IN ('expense', 'revenue')),
	description TEXT NOT NULL DEFAULT '',
	company_id  UUID NOT NULL REFERENCES companies (id) ON DELETE RESTRICT,
	valid_from  DATE NOT NULL,
	valid_until DATE NOT NULL,
	total_value DOUBLE PRECISION NOT NULL DEFAULT 0,
	created_at  TIMESTAMPTZ NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL,
	CHECK (valid_until >= valid_from)
);

CREATE TABLE IF NOT EXISTS committees (
	id              UUID PRIMARY KEY,
	contract_id     UUID NOT NULL REFERENCES contracts (id) ON DELETE RESTRICT,
	kind            TEXT NOT NULL CHECK (kind IN ('inspection', 'receiving')),
	active          BOOLEAN NOT NULL DEFAULT FALSE,
	order_number    TEXT NOT NULL DEFAULT '',
	order_date      DATE,
	bulletin_number TEXT NOT NULL DEFAULT '',
	bulletin_date   DATE,
	start_date      DATE,
	end_date        DATE,
	created_at      TIMESTAMPTZ NOT NULL,
	updated_at      TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS committees_contract_kind_idx ON committees (contract_id, kind);

CREATE TABLE IF NOT EXISTS memberships (
	id                 UUID PRIMARY KEY,
	committee_id       UUID NOT NULL REFERENCES committees (id) ON DELETE RESTRICT,
	agent_id           UUID NOT NULL REFERENCES agents (id) ON DELETE RESTRICT,
	role_id            UUID NOT NULL REFERENCES roles (id) ON DELETE RESTRICT,
	rank_id            UUID REFERENCES ranks (id) ON DELETE RESTRICT,
	start_date         DATE NOT NULL,
	scheduled_end      DATE,
	terminated_on      DATE,
	termination_reason TEXT NOT NULL DEFAULT '',
	termination_doc    TEXT NOT NULL DEFAULT '',
	order_number       TEXT NOT NULL DEFAULT '',
	order_date         DATE,
	bulletin_number    TEXT NOT NULL DEFAULT '',
	bulletin_date      DATE,
	note               TEXT NOT NULL DEFAULT '',
	display_order      INT,
	created_at         TIMESTAMPTZ NOT NULL,
	updated_at         TIMESTAMPTZ NOT NULL,
	CHECK (scheduled_end IS NULL OR scheduled_end >= start_date),
	CHECK (terminated_on IS NULL OR terminated_on >= start_date)
);
CREATE INDEX IF NOT EXISTS memberships_committee_idx ON memberships (committee_id);
CREATE INDEX IF NOT EXISTS memberships_chain_idx ON memberships (committee_id, agent_id, role_id);
`

// ApplySchema creates the tables when missing.
func ApplySchema(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
