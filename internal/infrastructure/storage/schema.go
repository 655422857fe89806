package storage

var schema = map[Dialect][]string{
	DialectPostgres: {
		`CREATE TABLE IF NOT EXISTS catalog_entries (
			id BIGSERIAL PRIMARY KEY,
			salesdrive_product_id TEXT NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			body TEXT NOT NULL DEFAULT '',
			excerpt TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'draft',
			price TEXT NOT NULL DEFAULT '',
			regular_price TEXT NOT NULL DEFAULT '',
			sale_price TEXT NOT NULL DEFAULT '',
			sku TEXT NOT NULL DEFAULT '',
			stock_qty BIGINT NOT NULL DEFAULT 0,
			stock_status TEXT NOT NULL DEFAULT 'outofstock',
			visibility TEXT NOT NULL DEFAULT 'hidden',
			thumbnail_id BIGINT NOT NULL DEFAULT 0,
			gallery TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_catalog_entries_salesdrive_product_id ON catalog_entries (salesdrive_product_id)`,
		`CREATE TABLE IF NOT EXISTS attachments (
			id BIGSERIAL PRIMARY KEY,
			url TEXT NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS terms (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS entry_terms (
			entry_id BIGINT NOT NULL,
			term_id BIGINT NOT NULL,
			PRIMARY KEY (entry_id, term_id)
		)`,
	},
	DialectMySQL: {
		`CREATE TABLE IF NOT EXISTS catalog_entries (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			salesdrive_product_id VARCHAR(191) NOT NULL,
			title TEXT NOT NULL,
			body LONGTEXT NOT NULL,
			excerpt TEXT NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'draft',
			price VARCHAR(64) NOT NULL DEFAULT '',
			regular_price VARCHAR(64) NOT NULL DEFAULT '',
			sale_price VARCHAR(64) NOT NULL DEFAULT '',
			sku VARCHAR(191) NOT NULL DEFAULT '',
			stock_qty BIGINT NOT NULL DEFAULT 0,
			stock_status VARCHAR(20) NOT NULL DEFAULT 'outofstock',
			visibility VARCHAR(20) NOT NULL DEFAULT 'hidden',
			thumbnail_id BIGINT NOT NULL DEFAULT 0,
			gallery TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			INDEX idx_catalog_entries_salesdrive_product_id (salesdrive_product_id)
		) DEFAULT CHARSET=utf8mb4`,
		`CREATE TABLE IF NOT EXISTS attachments (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			url VARCHAR(768) NOT NULL,
			UNIQUE KEY uq_attachments_url (url)
		) DEFAULT CHARSET=utf8mb4`,
		`CREATE TABLE IF NOT EXISTS terms (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(191) NOT NULL,
			UNIQUE KEY uq_terms_name (name)
		) DEFAULT CHARSET=utf8mb4`,
		`CREATE TABLE IF NOT EXISTS entry_terms (
			entry_id BIGINT NOT NULL,
			term_id BIGINT NOT NULL,
			PRIMARY KEY (entry_id, term_id)
		)`,
	},
	DialectSQLite: {
		`CREATE TABLE IF NOT EXISTS catalog_entries (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			salesdrive_product_id TEXT NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			body TEXT NOT NULL DEFAULT '',
			excerpt TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'draft',
			price TEXT NOT NULL DEFAULT '',
			regular_price TEXT NOT NULL DEFAULT '',
			sale_price TEXT NOT NULL DEFAULT '',
			sku TEXT NOT NULL DEFAULT '',
			stock_qty BIGINT NOT NULL DEFAULT 0,
			stock_status TEXT NOT NULL DEFAULT 'outofstock',
			visibility TEXT NOT NULL DEFAULT 'hidden',
			thumbnail_id INTEGER NOT NULL DEFAULT 0,
			gallery TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_catalog_entries_salesdrive_product_id ON catalog_entries (salesdrive_product_id)`,
		`CREATE TABLE IF NOT EXISTS attachments (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			url TEXT NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS terms (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS entry_terms (
			entry_id INTEGER NOT NULL,
			term_id INTEGER NOT NULL,
			PRIMARY KEY (entry_id, term_id)
		)`,
	},
}
