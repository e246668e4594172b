package http

import (
	"time"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/payment"
	"marketplace/internal/core/domain/model/review"
	"marketplace/internal/core/ports"
)

type moneyView struct {
	Cents int64  `json:"cents"`
	Value string `json:"value"`
}

func viewMoney(m kernel.Money) moneyView {
	return moneyView{Cents: m.Cents(), Value: m.String()}
}

func optionalID(id *kernel.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

type jobSummaryView struct {
	ID               string    `json:"id"`
	OrderNumber      string    `json:"orderNumber"`
	CustomerID       string    `json:"customerId"`
	Title            string    `json:"title"`
	PickupAddress    string    `json:"pickupAddress"`
	PickupDate       string    `json:"pickupDate"`
	PickupTime       string    `json:"pickupTime,omitempty"`
	DropOffDate      string    `json:"dropOffDate,omitempty"`
	DropOffTime      string    `json:"dropOffTime,omitempty"`
	Amount           moneyView `json:"amount"`
	Type             string    `json:"type"`
	DeliveryStatus   string    `json:"deliveryStatus"`
	DeliveryPartner  *string   `json:"deliveryPartner"`
	IsAmountDeducted bool      `json:"isAmountDeducted"`
	ApplicantCount   int       `json:"applicantCount"`
	CreatedAt        time.Time `json:"createdAt"`
}

func viewJobSummary(j queries.JobSummary) jobSummaryView {
	return jobSummaryView{
		ID:               j.ID.String(),
		OrderNumber:      j.OrderNumber,
		CustomerID:       j.CustomerID.String(),
		Title:            j.Title,
		PickupAddress:    j.PickupAddress,
		PickupDate:       j.PickupDate,
		PickupTime:       j.PickupTime,
		DropOffDate:      j.DropOffDate,
		DropOffTime:      j.DropOffTime,
		Amount:           viewMoney(j.Amount),
		Type:             j.Type,
		DeliveryStatus:   j.DeliveryStatus,
		DeliveryPartner:  optionalID(j.DeliveryPartner),
		IsAmountDeducted: j.IsAmountDeducted,
		ApplicantCount:   j.ApplicantCount,
		CreatedAt:        j.CreatedAt,
	}
}

func viewJobSummaries(jobs []queries.JobSummary) []jobSummaryView {
	out := make([]jobSummaryView, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, viewJobSummary(j))
	}
	return out
}

type dropOffView struct {
	ID              string   `json:"id"`
	Position        int      `json:"position"`
	Address         string   `json:"address"`
	Latitude        *float64 `json:"latitude,omitempty"`
	Longitude       *float64 `json:"longitude,omitempty"`
	ItemCount       int      `json:"itemCount"`
	WeightKg        float64  `json:"weightKg"`
	LengthCm        float64  `json:"lengthCm"`
	HeightCm        float64  `json:"heightCm"`
	Instructions    string   `json:"instructions,omitempty"`
	PickupImageRef  string   `json:"pickupImageRef,omitempty"`
	DropOffImageRef string   `json:"dropOffImageRef,omitempty"`
	DropOffPoint    int      `json:"dropOffPoint"`
	DropOffDetails  string   `json:"dropOffDetails,omitempty"`
	Status          string   `json:"status"`
	StatusMessage   string   `json:"statusMessage,omitempty"`
}

type jobView struct {
	jobSummaryView
	PickupLatitude       *float64      `json:"pickupLatitude,omitempty"`
	PickupLongitude      *float64      `json:"pickupLongitude,omitempty"`
	PartnerImageVerified bool          `json:"partnerImageVerified"`
	Applicants           []string      `json:"applicants"`
	DropOffs             []dropOffView `json:"dropOffs"`
}

func viewJob(j queries.GetJobQueryResponse) jobView {
	view := jobView{
		jobSummaryView:       viewJobSummary(j.JobSummary),
		PickupLatitude:       j.PickupLatitude,
		PickupLongitude:      j.PickupLongitude,
		PartnerImageVerified: j.PartnerImageVerified,
		Applicants:           make([]string, 0, len(j.Applicants)),
		DropOffs:             make([]dropOffView, 0, len(j.DropOffs)),
	}
	for _, id := range j.Applicants {
		view.Applicants = append(view.Applicants, id.String())
	}
	for _, d := range j.DropOffs {
		view.DropOffs = append(view.DropOffs, dropOffView{
			ID:              d.ID.String(),
			Position:        d.Position,
			Address:         d.Address,
			Latitude:        d.Latitude,
			Longitude:       d.Longitude,
			ItemCount:       d.ItemCount,
			WeightKg:        d.WeightKg,
			LengthCm:        d.LengthCm,
			HeightCm:        d.HeightCm,
			Instructions:    d.Instructions,
			PickupImageRef:  d.PickupImageRef,
			DropOffImageRef: d.DropOffImageRef,
			DropOffPoint:    d.DropOffPoint,
			DropOffDetails:  d.DropOffDetails,
			Status:          d.Status,
			StatusMessage:   d.StatusMessage,
		})
	}
	return view
}

type jobsOnDateView struct {
	PickupDate string           `json:"pickupDate"`
	Jobs       []jobSummaryView `json:"jobs"`
}

type jobListView struct {
	Jobs      []jobSummaryView `json:"jobs"`
	Scheduled []jobsOnDateView `json:"scheduled,omitempty"`
}

func viewJobList(r queries.GetJobsQueryResponse) jobListView {
	view := jobListView{Jobs: viewJobSummaries(r.Jobs)}
	for _, group := range r.Scheduled {
		view.Scheduled = append(view.Scheduled, jobsOnDateView{
			PickupDate: group.PickupDate,
			Jobs:       viewJobSummaries(group.Jobs),
		})
	}
	return view
}

type userView struct {
	ID                   string  `json:"id"`
	Role                 string  `json:"role"`
	Name                 string  `json:"name"`
	Email                string  `json:"email"`
	Phone                string  `json:"phone,omitempty"`
	PhotoRef             string  `json:"photoRef,omitempty"`
	PaymentAccountLinked bool    `json:"paymentAccountLinked"`
	PaymentAccountReady  bool    `json:"paymentAccountReady"`
	ReviewCount          int     `json:"reviewCount"`
	AverageRating        float64 `json:"averageRating"`
}

func viewUser(u queries.GetUserQueryResponse) userView {
	return userView{
		ID:                   u.ID.String(),
		Role:                 u.Role,
		Name:                 u.Name,
		Email:                u.Email,
		Phone:                u.Phone,
		PhotoRef:             u.PhotoRef,
		PaymentAccountLinked: u.PaymentAccountLinked,
		PaymentAccountReady:  u.PaymentAccountReady,
		ReviewCount:          u.ReviewCount,
		AverageRating:        u.AverageRating,
	}
}

type registeredUserView struct {
	ID    string `json:"id"`
	Role  string `json:"role"`
	Token string `json:"token"`
}

type deductionView struct {
	EntryID          string    `json:"entryId"`
	Status           string    `json:"status"`
	Amount           moneyView `json:"amount"`
	PaymentIntentRef string    `json:"paymentIntentRef,omitempty"`
}

func viewDeduction(o commands.DeductionOutcome) deductionView {
	return deductionView{
		EntryID:          o.EntryID.String(),
		Status:           o.Status.String(),
		Amount:           viewMoney(o.Amount),
		PaymentIntentRef: o.PaymentIntentRef,
	}
}

type transferView struct {
	EntryID     string    `json:"entryId"`
	TransferRef string    `json:"transferRef"`
	Amount      moneyView `json:"amount"`
}

func viewTransfer(o commands.TransferOutcome) transferView {
	return transferView{
		EntryID:     o.EntryID.String(),
		TransferRef: o.TransferRef,
		Amount:      viewMoney(o.Amount),
	}
}

type settlementView struct {
	Deduction *deductionView `json:"deduction,omitempty"`
	Transfer  *transferView  `json:"transfer,omitempty"`
}

func viewSettlement(r commands.SettlementResult) settlementView {
	var view settlementView
	if r.Deduction != nil {
		d := viewDeduction(*r.Deduction)
		view.Deduction = &d
	}
	if r.Transfer != nil {
		t := viewTransfer(*r.Transfer)
		view.Transfer = &t
	}
	return view
}

type transactionView struct {
	ID              string    `json:"id"`
	JobID           *string   `json:"jobId,omitempty"`
	OrderNumber     string    `json:"orderNumber,omitempty"`
	TransactionType string    `json:"transactionType"`
	Amount          moneyView `json:"amount"`
	Status          string    `json:"status"`
	IsTip           bool      `json:"isTip"`
	Transferred     bool      `json:"transferred"`
	CreatedAt       time.Time `json:"createdAt"`
}

func viewTransactions(items []queries.TransactionView) []transactionView {
	out := make([]transactionView, 0, len(items))
	for _, t := range items {
		out = append(out, transactionView{
			ID:              t.ID.String(),
			JobID:           optionalID(t.JobID),
			OrderNumber:     t.OrderNumber,
			TransactionType: t.TransactionType,
			Amount:          viewMoney(t.Amount),
			Status:          t.Status,
			IsTip:           t.IsTip,
			Transferred:     t.Transferred,
			CreatedAt:       t.CreatedAt,
		})
	}
	return out
}

type balanceView struct {
	AccountLinked bool      `json:"accountLinked"`
	Available     moneyView `json:"available"`
	Pending       moneyView `json:"pending"`
	Total         moneyView `json:"total"`
}

func viewBalance(b queries.GetBalanceQueryResponse) balanceView {
	return balanceView{
		AccountLinked: b.AccountLinked,
		Available:     viewMoney(b.Available),
		Pending:       viewMoney(b.Pending),
		Total:         viewMoney(b.Available.Add(b.Pending)),
	}
}

type withdrawView struct {
	ID          string    `json:"id"`
	Amount      moneyView `json:"amount"`
	Destination string    `json:"destination"`
	PayoutRef   string    `json:"payoutRef,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

func viewWithdraw(w *payment.Withdraw) withdrawView {
	return withdrawView{
		ID:          w.ID().String(),
		Amount:      viewMoney(w.Amount()),
		Destination: w.Destination(),
		PayoutRef:   w.PayoutRef(),
		Status:      w.Status().String(),
		CreatedAt:   w.CreatedAt(),
	}
}

type reviewView struct {
	ID        string    `json:"id"`
	JobID     string    `json:"jobId"`
	DriverID  string    `json:"driverId"`
	Rating    int       `json:"rating"`
	Text      string    `json:"text,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func viewReview(r *review.Review) reviewView {
	return reviewView{
		ID:        r.ID().String(),
		JobID:     r.JobID().String(),
		DriverID:  r.DriverID().String(),
		Rating:    r.Rating(),
		Text:      r.Text(),
		CreatedAt: r.CreatedAt(),
	}
}

type onboardingView struct {
	AccountID string `json:"accountId"`
	URL       string `json:"url,omitempty"`
	Ready     bool   `json:"ready"`
}

type notificationView struct {
	ID        string    `json:"id"`
	Event     string    `json:"event"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

func viewNotifications(items []ports.Notification) []notificationView {
	out := make([]notificationView, 0, len(items))
	for _, n := range items {
		out = append(out, notificationView{
			ID:        n.ID,
			Event:     n.Event,
			Title:     n.Title,
			Message:   n.Message,
			Read:      n.Read,
			CreatedAt: n.CreatedAt,
		})
	}
	return out
}
