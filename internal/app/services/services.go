// Package services holds the business logic behind the controllers.
//
// Services defined in this package:
//   - CompanyService: public company reads, engagement and the save pipeline
//   - SubmissionService: contributions and their moderation
//   - NotificationService: new-company fan-out and the per-user inbox
//   - CommentService: company discussion threads
//   - UserService: session sync and the welcome notification
//   - StatsService: admin dashboard counters
//   - ChatService: the preparation assistant
//
// Services depend on the store interfaces in stores.go, never on pgx directly.
package services
