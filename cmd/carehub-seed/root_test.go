package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/bonchi/carehub/internal/testutil"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestUpdateWithoutFieldsFails(t *testing.T) {
	if _, err := execute(t, "coordinator", "update"); !errors.Is(err, errNothingToUpdate) {
		t.Errorf("err = %v, want errNothingToUpdate", err)
	}
}

func TestCreateRequiresFlags(t *testing.T) {
	_, err := execute(t, "coordinator", "create", "--name", "Meena")
	if err == nil || !strings.Contains(err.Error(), "required flag") {
		t.Errorf("err = %v, want required flag error", err)
	}
}

func TestHelpListsSubcommands(t *testing.T) {
	out, err := execute(t, "coordinator", "--help")
	if err != nil {
		t.Fatalf("help: %v", err)
	}
	for _, sub := range []string{"create", "update", "show", "delete"} {
		if !strings.Contains(out, sub) {
			t.Errorf("help output missing %q", sub)
		}
	}
}

func TestEnvBindsFlags(t *testing.T) {
	t.Setenv("CAREHUB_MONGO_URI", "not-a-uri")
	_, err := execute(t, "coordinator", "show")
	if err == nil || !strings.Contains(err.Error(), "invalid mongo uri") {
		t.Errorf("err = %v, want invalid mongo uri from env", err)
	}
}

func TestCreateShowDeleteAgainstMongo(t *testing.T) {
	db := testutil.SetupTestDB(t)
	uri := testutil.MongoURI()
	base := []string{"--mongo-uri", uri, "--mongo-database", db.Name(), "--mobile", "9876500099"}

	out, err := execute(t, append([]string{"coordinator", "create",
		"--name", "Meena Kumari", "--district", "Nalanda", "--password", "district123"}, base...)...)
	if err != nil {
		t.Fatalf("create: %v (%s)", err, out)
	}
	if !strings.Contains(out, "created district coordinator 9876500099") {
		t.Errorf("create output = %q", out)
	}

	out, err = execute(t, append([]string{"coordinator", "create",
		"--name", "Meena Kumari", "--district", "Gaya", "--password", "district123"}, base...)...)
	if err != nil || !strings.Contains(out, "recreated") {
		t.Fatalf("recreate: %v (%s)", err, out)
	}

	out, err = execute(t, append([]string{"coordinator", "show"}, base...)...)
	if err != nil || !strings.Contains(out, `"district": "Gaya"`) {
		t.Fatalf("show: %v (%s)", err, out)
	}

	if out, err = execute(t, append([]string{"coordinator", "delete"}, base...)...); err != nil {
		t.Fatalf("delete: %v (%s)", err, out)
	}
}
