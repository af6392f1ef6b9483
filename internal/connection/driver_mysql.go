package connection

import (
	// Registers the "mysql" database/sql driver.
	_ "github.com/go-sql-driver/mysql"
)
