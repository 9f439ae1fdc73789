package django

import "github.com/imamik/hostkit/internal/provisioning"

// Update returns the task that pulls the latest code as the application
// user and restarts the application.
func Update() provisioning.Task {
	return provisioning.Task{
		Name:        "update",
		Description: "Pull the application and restart it",
		Schema:      UpdateSchema,
		Steps: []provisioning.Step{
			provisioning.NewStep("checkout", checkout),
			restartStep(),
		},
	}
}
