// Command carehub-seed creates and maintains the district coordinator account
// directly in MongoDB.
//
//	carehub-seed coordinator create --name "Meena Kumari" --district Nalanda --password ...
//	carehub-seed coordinator update --designation "District Magistrate"
//	carehub-seed coordinator show
//	carehub-seed coordinator delete
//
// Connection settings come from flags or CAREHUB_MONGO_URI / CAREHUB_MONGO_DATABASE.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
