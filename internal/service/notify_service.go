package service

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"spotshare/internal/db"
	"spotshare/internal/entities"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// SenderService delivers booking status notifications to both parties.
// Delivery runs in goroutines; failures are logged, never propagated.
type SenderService struct{}

func NewSenderService() *SenderService {
	return &SenderService{}
}

func (s *SenderService) NotifyBookingStatus(b *db.Booking, space *db.ParkingSpace, renter, owner *db.User, status string) {
	data := entities.BookingEmailData{
		UserName:           renter.Name,
		BookingID:          b.ID,
		SpaceTitle:         space.Title,
		StartTimeFormatted: b.StartTime.Format("02 Jan 2006 15:04 MST"),
		EndTimeFormatted:   b.EndTime.Format("02 Jan 2006 15:04 MST"),
		Status:             status,
		CurrentYear:        time.Now().UTC().Year(),
	}

	subject := fmt.Sprintf("Your SpotShare booking #%d is %s", b.ID, status)
	body := fmt.Sprintf(
		"Hello %s,\n\nYour booking at %s is %s.\n\n"+
			"Booking Details:\n"+
			"Booking: #%d\n"+
			"Check-in: %s\n"+
			"Check-out: %s\n\n"+
			"Thank you for using SpotShare.",
		data.UserName, data.SpaceTitle, status,
		data.BookingID, data.StartTimeFormatted, data.EndTimeFormatted,
	)
	htmlBody := strings.ReplaceAll(body, "\n", "<br>")

	go func() {
		if err := SendEmailWithSendGrid(renter.Email, renter.Name, subject, body, htmlBody); err != nil {
			log.Printf("Failed to send renter email for booking %d: %v", b.ID, err)
		}
	}()

	if renter.Phone != "" {
		sms := fmt.Sprintf("SpotShare: booking #%d at %s is %s. Check-in: %s. Details in your email.",
			b.ID, space.Title, status, b.StartTime.Format("02/01 15:04"))
		go func() {
			if err := SendSMS(renter.Phone, sms); err != nil {
				log.Printf("Failed to send SMS for booking %d to %s: %v", b.ID, renter.Phone, err)
			}
		}()
	}

	if owner != nil {
		ownerSubject := fmt.Sprintf("Booking #%d for your space %q is %s", b.ID, space.Title, status)
		ownerBody := fmt.Sprintf(
			"Hello %s,\n\nBooking #%d for your space %q is %s.\n\n"+
				"Check-in: %s\nCheck-out: %s\n\n"+
				"SpotShare.",
			owner.Name, b.ID, space.Title, status,
			data.StartTimeFormatted, data.EndTimeFormatted,
		)
		go func() {
			if err := SendEmailWithSendGrid(owner.Email, owner.Name, ownerSubject, ownerBody, strings.ReplaceAll(ownerBody, "\n", "<br>")); err != nil {
				log.Printf("Failed to send owner email for booking %d: %v", b.ID, err)
			}
		}()
	}
}

func SendEmailWithSendGrid(toEmailAddress, toName, subject, plainTextContent, htmlContent string) error {
	sendgridAPIKey := os.Getenv("SENDGRID_API_KEY")
	if sendgridAPIKey == "" {
		log.Println("WARNING: SENDGRID_API_KEY not set, email will not be sent")
		return fmt.Errorf("SENDGRID_API_KEY not set")
	}

	fromEmail := os.Getenv("SENDGRID_FROM_EMAIL")
	if fromEmail == "" {
		log.Println("WARNING: SENDGRID_FROM_EMAIL not set, email will not be sent")
		return fmt.Errorf("SENDGRID_FROM_EMAIL not set")
	}

	fromName := os.Getenv("SENDGRID_FROM_NAME")
	if fromName == "" {
		fromName = "SpotShare"
	}

	from := mail.NewEmail(fromName, fromEmail)
	to := mail.NewEmail(toName, toEmailAddress)
	message := mail.NewSingleEmail(from, subject, to, plainTextContent, htmlContent)

	client := sendgrid.NewSendClient(sendgridAPIKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("sending email through SendGrid failed: %w", err)
	}

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		log.Printf("Email sent to %s (subject: %s), status %d", toEmailAddress, subject, response.StatusCode)
		return nil
	}
	return fmt.Errorf("SendGrid returned status %d: %s", response.StatusCode, response.Body)
}

func SendSMS(toNumber string, messageBody string) error {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")
	fromNumber := os.Getenv("TWILIO_FROM_NUMBER")

	if accountSid == "" || authToken == "" || fromNumber == "" {
		log.Println("WARNING: Twilio credentials not fully configured, SMS will not be sent")
		return fmt.Errorf("twilio credentials not configured")
	}

	if !strings.HasPrefix(toNumber, "+") {
		log.Printf("WARNING: destination number %q is not E.164, SMS may fail", toNumber)
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username:   accountSid,
		Password:   authToken,
		AccountSid: accountSid,
	})

	params := &openapi.CreateMessageParams{}
	params.SetTo(toNumber)
	params.SetFrom(fromNumber)
	params.SetBody(messageBody)

	resp, err := client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("sending SMS failed: %w", err)
	}
	if resp != nil && resp.Sid != nil {
		log.Printf("SMS sent to %s, message SID %s", toNumber, *resp.Sid)
	}
	return nil
}
