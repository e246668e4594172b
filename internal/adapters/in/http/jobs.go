package http

import (
	"net/http"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/job"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/generated/servers"

	"github.com/labstack/echo/v4"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

func toLocation(l servers.Location) (kernel.Location, error) {
	if l.Latitude != nil && l.Longitude != nil {
		return kernel.NewLocation(l.Address, *l.Latitude, *l.Longitude)
	}
	return kernel.NewAddressLocation(l.Address)
}

func toDropOffInputs(in []servers.NewDropOff) ([]commands.DropOffInput, error) {
	out := make([]commands.DropOffInput, 0, len(in))
	for _, d := range in {
		location, err := toLocation(d.Location)
		if err != nil {
			return nil, err
		}
		out = append(out, commands.DropOffInput{
			Location: location,
			Items: job.Items{
				Count:    d.ItemCount,
				WeightKg: float64(deref(d.WeightKg)),
				LengthCm: float64(deref(d.LengthCm)),
				HeightCm: float64(deref(d.HeightCm)),
			},
			Instructions: deref(d.Instructions),
		})
	}
	return out, nil
}

// CreateJob handles POST /api/v1/jobs.
func (s *Server) CreateJob(ctx echo.Context) error {
	caller, err := callerFrom(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	var body servers.CreateJobRequest
	if err = bindBody(ctx, &body); err != nil {
		return s.fail(ctx, err)
	}

	pickup, err := toLocation(body.Pickup)
	if err != nil {
		return s.fail(ctx, err)
	}
	dropOffs, err := toDropOffInputs(body.DropOffs)
	if err != nil {
		return s.fail(ctx, err)
	}
	var amount *kernel.Money
	if body.AmountCents != nil {
		m, moneyErr := kernel.NewMoney(*body.AmountCents)
		if moneyErr != nil {
			return s.fail(ctx, moneyErr)
		}
		amount = &m
	}

	cmd, err := commands.NewCreateJobCommand(
		kernel.NewUUID(),
		caller.ID,
		body.Title,
		pickup,
		job.Schedule{
			PickupDate:  body.PickupDate,
			PickupTime:  deref(body.PickupTime),
			DropOffDate: deref(body.DropOffDate),
			DropOffTime: deref(body.DropOffTime),
		},
		job.Type(body.Type),
		amount,
		dropOffs,
	)
	if err != nil {
		return s.fail(ctx, err)
	}

	created, err := s.commands.CreateJob.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	query, err := queries.NewGetJobQuery(created.ID(), caller.ID)
	if err != nil {
		return s.fail(ctx, err)
	}
	details, err := s.queries.GetJob.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}
	return respond(ctx, http.StatusCreated, "Job created", viewJob(details))
}

// ListJobs handles GET /api/v1/jobs; the filter defaults to active jobs.
func (s *Server) ListJobs(ctx echo.Context, params servers.ListJobsParams) error {
	caller, err := callerFrom(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	filter := queries.ActiveJobs
	if params.Filter != nil {
		if filter, err = queries.ParseJobFilter(string(*params.Filter)); err != nil {
			return s.fail(ctx, err)
		}
	}

	query, err := queries.NewGetJobsQuery(caller.ID, filter)
	if err != nil {
		return s.fail(ctx, err)
	}
	result, err := s.queries.GetJobs.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}
	return respond(ctx, http.StatusOK, "Jobs retrieved", viewJobList(result))
}

// ListAvailableJobs handles GET /api/v1/jobs/available.
func (s *Server) ListAvailableJobs(ctx echo.Context) error {
	caller, err := callerFrom(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	query, err := queries.NewGetAvailableJobsQuery(caller.ID)
	if err != nil {
		return s.fail(ctx, err)
	}
	jobs, err := s.queries.GetAvailableJobs.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}
	return respond(ctx, http.StatusOK, "Available jobs retrieved", viewJobSummaries(jobs))
}

// GetJob handles GET /api/v1/jobs/{jobId}.
func (s *Server) GetJob(ctx echo.Context, jobId servers.JobId) error {
	caller, jobID, err := s.callerAndJob(ctx, jobId)
	if err != nil {
		return s.fail(ctx, err)
	}

	query, err := queries.NewGetJobQuery(jobID, caller.ID)
	if err != nil {
		return s.fail(ctx, err)
	}
	details, err := s.queries.GetJob.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}
	return respond(ctx, http.StatusOK, "Job retrieved", viewJob(details))
}

// ApplyForJob handles POST /api/v1/jobs/{jobId}/apply.
func (s *Server) ApplyForJob(ctx echo.Context, jobId servers.JobId) error {
	caller, jobID, err := s.callerAndJob(ctx, jobId)
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewApplyForJobCommand(jobID, caller.ID)
	if err != nil {
		return s.fail(ctx, err)
	}
	if err = s.commands.ApplyForJob.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}
	return respond(ctx, http.StatusOK, "Applied for job", nil)
}

// SelectDriver handles POST /api/v1/jobs/{jobId}/select-driver.
func (s *Server) SelectDriver(ctx echo.Context, jobId servers.JobId) error {
	caller, jobID, err := s.callerAndJob(ctx, jobId)
	if err != nil {
		return s.fail(ctx, err)
	}

	var body servers.SelectDriverRequest
	if err = bindBody(ctx, &body); err != nil {
		return s.fail(ctx, err)
	}
	driverID, err := toKernelUUID(body.DriverId)
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewSelectDriverCommand(jobID, caller.ID, driverID)
	if err != nil {
		return s.fail(ctx, err)
	}
	if err = s.commands.SelectDriver.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}
	return respond(ctx, http.StatusOK, "Driver selected", nil)
}

// AdvanceDropOff handles POST /api/v1/jobs/{jobId}/drop-offs/{dropOffId}/advance.
func (s *Server) AdvanceDropOff(ctx echo.Context, jobId servers.JobId, dropOffId openapi_types.UUID) error {
	caller, jobID, err := s.callerAndJob(ctx, jobId)
	if err != nil {
		return s.fail(ctx, err)
	}
	dropOffID, err := toKernelUUID(dropOffId)
	if err != nil {
		return s.fail(ctx, err)
	}

	var body servers.AdvanceDropOffRequest
	if err = bindBody(ctx, &body); err != nil {
		return s.fail(ctx, err)
	}
	evidence := job.Evidence{
		PickupImageRef:  body.PickupImageRef,
		DropOffImageRef: body.DropOffImageRef,
		DropOffDetails:  body.DropOffDetails,
	}
	if body.DropOffPoint != nil {
		point := job.DropOffPoint(*body.DropOffPoint)
		evidence.DropOffPoint = &point
	}

	cmd, err := commands.NewAdvanceDropOffCommand(jobID, caller.ID, dropOffID, job.DropOffStatus(body.Status), evidence)
	if err != nil {
		return s.fail(ctx, err)
	}
	message, err := s.commands.AdvanceDropOff.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return respond(ctx, http.StatusOK, message, nil)
}

// CompleteDelivery handles POST /api/v1/jobs/{jobId}/complete.
func (s *Server) CompleteDelivery(ctx echo.Context, jobId servers.JobId) error {
	caller, jobID, err := s.callerAndJob(ctx, jobId)
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewCompleteDeliveryCommand(jobID, caller.ID)
	if err != nil {
		return s.fail(ctx, err)
	}
	if err = s.commands.CompleteDelivery.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}
	return respond(ctx, http.StatusOK, "Delivery completed", nil)
}

// QuitJob handles POST /api/v1/jobs/{jobId}/quit.
func (s *Server) QuitJob(ctx echo.Context, jobId servers.JobId) error {
	caller, jobID, err := s.callerAndJob(ctx, jobId)
	if err != nil {
		return s.fail(ctx, err)
	}

	var body servers.QuitJobRequest
	if err = bindBody(ctx, &body); err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewQuitJobCommand(jobID, caller.ID, body.Reason)
	if err != nil {
		return s.fail(ctx, err)
	}
	if err = s.commands.QuitJob.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}
	return respond(ctx, http.StatusOK, "Job quit", nil)
}

// LeaveReview handles POST /api/v1/jobs/{jobId}/reviews.
func (s *Server) LeaveReview(ctx echo.Context, jobId servers.JobId) error {
	caller, jobID, err := s.callerAndJob(ctx, jobId)
	if err != nil {
		return s.fail(ctx, err)
	}

	var body servers.LeaveReviewRequest
	if err = bindBody(ctx, &body); err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewLeaveReviewCommand(jobID, caller.ID, body.Rating, deref(body.Text))
	if err != nil {
		return s.fail(ctx, err)
	}
	created, err := s.commands.LeaveReview.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return respond(ctx, http.StatusCreated, "Review saved", viewReview(created))
}

// VerifyDriverImage handles POST /api/v1/jobs/{jobId}/driver-verification.
func (s *Server) VerifyDriverImage(ctx echo.Context, jobId servers.JobId) error {
	caller, jobID, err := s.callerAndJob(ctx, jobId)
	if err != nil {
		return s.fail(ctx, err)
	}

	var body servers.DriverVerificationRequest
	if err = bindBody(ctx, &body); err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewVerifyDriverImageCommand(jobID, caller.ID, body.ImageRef)
	if err != nil {
		return s.fail(ctx, err)
	}
	if err = s.commands.VerifyDriverImage.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}
	return respond(ctx, http.StatusOK, "Driver image verified", nil)
}

func (s *Server) callerAndJob(ctx echo.Context, jobId servers.JobId) (Caller, kernel.UUID, error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return Caller{}, kernel.UUID{}, err
	}
	jobID, err := toKernelUUID(jobId)
	if err != nil {
		return Caller{}, kernel.UUID{}, err
	}
	return caller, jobID, nil
}
