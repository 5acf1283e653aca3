// services/alert_service.go
package services

import (
	"bytes"
	"context"
	"fmt"
	"net/smtp"
	"text/template"

	"go.uber.org/zap"

	"payhub/pkg/utils"
)

// ReconciliationAlert is raised when gateway money state and the local ledger
// disagree and no automatic repair is possible: a compensation that failed, or
// a local commit that failed after a successful refund. These go straight to
// operators.
type ReconciliationAlert struct {
	Reason          string
	TransactionUuid string
	PartnerTxID     string
	ProviderTxID    string
	Amount          int64
	ResponseCode    string
	ResponseMessage string
}

type AlertNotifier interface {
	NotifyReconciliationRequired(ctx context.Context, alert ReconciliationAlert)
}

// SMTPAlertConfig holds the SMTP + addressing config for operator alerts.
type SMTPAlertConfig struct {
	Host     string // e.g. "smtp.gmail.com"
	Port     int    // STARTTLS port, e.g. 587
	Username string
	Password string
	From     string // envelope from, e.g. "alerts@payhub.io"
	To       string // operator channel address
	AppName  string
}

type smtpAlertNotifier struct {
	cfg    SMTPAlertConfig
	tpl    *template.Template
	logger *zap.Logger
}

const alertTemplate = `MANUAL RECONCILIATION REQUIRED

Reason:            {{.Reason}}
Transaction:       {{.TransactionUuid}}
Partner tx id:     {{.PartnerTxID}}
Gateway tx id:     {{.ProviderTxID}}
Amount:            {{.Amount}}
Gateway code:      {{.ResponseCode}}
Gateway message:   {{.ResponseMessage}}
`

func NewSMTPAlertNotifier(cfg SMTPAlertConfig, logger *zap.Logger) AlertNotifier {
	return &smtpAlertNotifier{
		cfg:    cfg,
		tpl:    template.Must(template.New("alert").Parse(alertTemplate)),
		logger: logger,
	}
}

func (n *smtpAlertNotifier) NotifyReconciliationRequired(_ context.Context, alert ReconciliationAlert) {
	// the alert must reach the log even if mail delivery fails
	n.logger.Error("manual reconciliation required",
		zap.String("reason", alert.Reason),
		zap.String("transaction_uuid", alert.TransactionUuid),
		zap.String("partner_tx_id", alert.PartnerTxID),
		zap.String("provider_tx_id", alert.ProviderTxID),
		zap.Int64("amount", alert.Amount),
		zap.String("gateway_code", alert.ResponseCode),
		zap.String("gateway_message", alert.ResponseMessage),
	)

	var body bytes.Buffer
	if err := n.tpl.Execute(&body, alert); err != nil {
		n.logger.Error("alert template render failed", zap.Error(err))
		return
	}

	subject := fmt.Sprintf("[%s] manual reconciliation required: transaction %s", n.cfg.AppName, alert.TransactionUuid)

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s\r\n", n.cfg.From)
	fmt.Fprintf(&msg, "To: %s\r\n", n.cfg.To)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	fmt.Fprintf(&msg, "Content-Type: text/plain; charset=UTF-8\r\n")
	fmt.Fprintf(&msg, "\r\n%s", body.String())

	addr := fmt.Sprintf("%s:%d", n.cfg.Host, n.cfg.Port)
	auth := smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)

	if err := smtp.SendMail(addr, auth, n.cfg.From, []string{n.cfg.To}, msg.Bytes()); err != nil {
		n.logger.Error("alert mail delivery failed", zap.Error(err))
	}
}

// logAlertNotifier is used when no SMTP endpoint is configured; the structured
// log line is the alert channel.
type logAlertNotifier struct {
	logger *zap.Logger
}

func NewLogAlertNotifier(logger *zap.Logger) AlertNotifier {
	return &logAlertNotifier{logger: logger}
}

func (n *logAlertNotifier) NotifyReconciliationRequired(_ context.Context, alert ReconciliationAlert) {
	n.logger.Error("manual reconciliation required",
		zap.String("reason", alert.Reason),
		zap.String("transaction_uuid", alert.TransactionUuid),
		zap.String("partner_tx_id", alert.PartnerTxID),
		zap.String("provider_tx_id", alert.ProviderTxID),
		zap.Int64("amount", alert.Amount),
		zap.String("gateway_code", alert.ResponseCode),
		zap.String("gateway_message", alert.ResponseMessage),
	)
}

// AlertFromCompensationFailure keeps the alert and the surfaced error in sync.
func AlertFromCompensationFailure(err *utils.CompensationFailureError, amount int64) ReconciliationAlert {
	return ReconciliationAlert{
		Reason:          "gateway charge succeeded, local commit failed, compensating cancellation failed",
		TransactionUuid: err.TransactionUuid,
		PartnerTxID:     err.PartnerTxID,
		ProviderTxID:    err.ProviderTxID,
		Amount:          amount,
		ResponseCode:    err.Code,
		ResponseMessage: err.Message,
	}
}
