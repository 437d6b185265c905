package notifications

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Service sends the participant-facing emails. Every send is
// fire-and-forget: delivery failures are logged and never propagated to the
// calling flow.
type Service struct {
	mailer Mailer
	logger *zap.Logger
}

// NewService creates a notification service
func NewService(mailer Mailer, logger *zap.Logger) *Service {
	return &Service{
		mailer: mailer,
		logger: logger,
	}
}

func (s *Service) send(ctx context.Context, msg Message) {
	if msg.To == "" {
		return
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.logger.Warn("Email delivery failed",
			zap.String("to", msg.To),
			zap.String("subject", msg.Subject),
			zap.Error(err))
	}
}

// SendRegistrationConfirmation confirms a new registration
func (s *Service) SendRegistrationConfirmation(ctx context.Context, participantName, eventTitle, eventDate, eventTime, venue, toEmail string) {
	body := fmt.Sprintf(`Dear %s,

Greetings from the Holy Cross of Davao College!

This is to confirm that your registration for %s, organized by the Office of the Vice President for Academic Affairs (VPAA), has been successfully received.

Please take note of your event details below:
Date: %s
Time: %s
Venue: %s

Please keep this information for your reference. You will receive another email for attendance confirmation and, later, a post-event evaluation form.

Thank you for your participation and interest in this event.

Sincerely,
CROSSCERT Team
Holy Cross of Davao College
`, participantName, eventTitle, eventDate, eventTime, venue)

	s.send(ctx, Message{
		To:      toEmail,
		Subject: fmt.Sprintf("Registration Confirmation – %s", eventTitle),
		Body:    body,
	})
}

// SendAttendanceConfirmation confirms a recorded check-in
func (s *Service) SendAttendanceConfirmation(ctx context.Context, participantName, eventTitle, eventDate, venue, toEmail string) {
	body := fmt.Sprintf(`Dear %s,

This email confirms your successful attendance for %s held on %s at %s.

We appreciate your active participation in this event.
Your attendance has been officially recorded in our system.

You will soon receive a follow-up email containing the Post-Event Evaluation Form.
Please complete it to receive your official certificate of participation.

Thank you and congratulations for being part of this learning experience!

Warm regards,
CROSSCERT Team
Holy Cross of Davao College
`, participantName, eventTitle, eventDate, venue)

	s.send(ctx, Message{
		To:      toEmail,
		Subject: fmt.Sprintf("Attendance Confirmation – %s", eventTitle),
		Body:    body,
	})
}

// SendPostEventEvaluation sends the evaluation form link after checkout
func (s *Service) SendPostEventEvaluation(ctx context.Context, participantName, eventTitle, evaluationURL, toEmail string) {
	body := fmt.Sprintf(`Dear %s,

Thank you for attending %s organized by the Holy Cross of Davao College.

We value your feedback to help us improve future events.
Please take a few moments to answer the post-event evaluation form below:

Evaluation Link: %s

After submitting your evaluation, your Certificate of Participation will be automatically generated and sent to your registered email address.

We truly appreciate your time and support.

Best regards,
CROSSCERT Team
Holy Cross of Davao College
`, participantName, eventTitle, evaluationURL)

	s.send(ctx, Message{
		To:      toEmail,
		Subject: fmt.Sprintf("Post-Event Evaluation – %s", eventTitle),
		Body:    body,
	})
}

// SendEventCreated notifies the organizer that a new event exists
func (s *Service) SendEventCreated(ctx context.Context, eventTitle, eventDate, organizerEmail string) {
	body := fmt.Sprintf(`Dear Organizer,

Your event "%s" has been created in CROSSCERT for %s.

You can now share the event registration QR code, manage participants, and track attendance through the admin dashboard.

Best regards,
CROSSCERT Team
`, eventTitle, eventDate)

	s.send(ctx, Message{
		To:      organizerEmail,
		Subject: fmt.Sprintf("New Event Created – %s", eventTitle),
		Body:    body,
	})
}

// SendCertificate delivers the generated certificate PDF
func (s *Service) SendCertificate(ctx context.Context, participantName, eventTitle, eventDate, certificateNumber, toEmail string, pdf []byte) {
	body := fmt.Sprintf(`Dear %s,

Congratulations! Your certificate for %s is ready.

Event Date: %s
Certificate Number: %s

Please find your certificate attached.

Best regards,
CROSSCERT Team
`, participantName, eventTitle, eventDate, certificateNumber)

	s.send(ctx, Message{
		To:      toEmail,
		Subject: fmt.Sprintf("Your Certificate - %s", eventTitle),
		Body:    body,
		Attachments: []Attachment{
			{
				Name:        fmt.Sprintf("%s.pdf", certificateNumber),
				Data:        pdf,
				ContentType: "application/pdf",
			},
		},
	})
}
