package doctor

import (
	"testing"

	"github.com/cms-sw/cmsdist-installer/internal/config"
)

func requireResultByCheckName(t *testing.T, results []Result, checkName string) Result {
	t.Helper()
	var found *Result
	for _, result := range results {
		if result.CheckName == checkName {
			if found != nil {
				t.Fatalf("multiple %s results in %#v", checkName, results)
			}
			copyResult := result
			found = &copyResult
		}
	}
	if found == nil {
		t.Fatalf("missing %s result in %#v", checkName, results)
	}
	return *found
}

type fakeChecker struct {
	ok  bool
	err error
}

func (f fakeChecker) Bootstrapped(config.Effective) (bool, error) {
	return f.ok, f.err
}
