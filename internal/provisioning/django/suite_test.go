package django

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// TestTasks is the entry point for the Ginkgo task scenarios.
func TestTasks(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Django Task Suite")
}
