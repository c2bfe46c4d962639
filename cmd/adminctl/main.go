// AngelaMos | 2026
// main.go

package main

import (
	"os"

	"github.com/carterperez-dev/templates/admin-backoffice/internal/adminctl"
)

func main() {
	os.Exit(adminctl.Execute())
}
