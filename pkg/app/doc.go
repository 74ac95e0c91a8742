// Package app is the bootstrap app binaries use to run under easel.
//
// An app is an ordinary Go program that hands its definition to Run (or
// RunServer when launched through the server bootstrap) and talks to the
// service layer through the handle it receives:
//
//	func main() {
//		err := app.Run(app.Config{}, func(svc service.Service) error {
//			svc.AppendComponent(component.Component{
//				"type": "text", "markdown": "# Report",
//			})
//			return nil
//		})
//		if err != nil {
//			os.Exit(1)
//		}
//	}
//
// Run never branches on the execution context itself: detection selects
// the service implementation, and the same app definition works under
// the server, headless and virtual contexts.
//
// Connect is the lighter entry point for script-style apps that only
// need the data-access collaborator; it mirrors the service facade's
// initialization and resolves the script path from the caller's source
// file when the environment does not carry one.
package app
