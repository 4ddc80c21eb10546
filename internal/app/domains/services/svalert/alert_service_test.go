package svalert

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cropwatch/common/model"
	"cropwatch/internal/app/domains/entity/etalert"
	"cropwatch/internal/app/domains/entity/etplot"
	"cropwatch/internal/app/domains/modules/mdalert"
	"cropwatch/internal/app/domains/modules/mdplot"
	"cropwatch/internal/app/domains/repo/rpalert"
	"cropwatch/internal/app/domains/repo/rpplot"
	"cropwatch/internal/app/domains/repo/rpreading"
	"cropwatch/internal/app/infra/persistence/dbtest"
	"cropwatch/internal/app/pkg/errorx"
	"cropwatch/internal/app/pkg/logger"
)

type fixture struct {
	svc    *AlertService
	alerts *mdalert.AlertModule
	plotID int64
}

func newFixture(t *testing.T) *fixture {
	ctx := context.Background()
	db := dbtest.NewDB(t)
	plots := mdplot.NewPlotModule(rpplot.NewPlotRepository(db), rpreading.NewReadingRepository(db))
	alerts := mdalert.NewAlertModule(rpalert.NewAlertRepository(db))

	plot, err := etplot.NewPlot("p", "loc", "corn", 1, "")
	require.NoError(t, err)
	require.NoError(t, plots.CreatePlot(ctx, plot))

	ts := time.Date(2026, 10, 19, 6, 0, 0, 0, time.UTC)
	seed := []*etalert.Alert{
		{ID: 1, PlotID: plot.ID, RequestID: "r1", Category: model.CategoryTemperature, Severity: model.SeverityCritical, Recommendations: []string{"x"}, Timestamp: ts},
		{ID: 2, PlotID: plot.ID, RequestID: "r1", Category: model.CategoryPhLevel, Severity: model.SeverityMedium, Recommendations: []string{"x"}, Timestamp: ts},
		{ID: 3, PlotID: plot.ID + 1, RequestID: "r2", Category: model.CategoryHumidity, Severity: model.SeverityHigh, Recommendations: []string{"x"}, Timestamp: ts},
	}
	_, err = alerts.SaveAlerts(ctx, seed)
	require.NoError(t, err)

	return &fixture{
		svc:    NewAlertService(alerts, plots, logger.NewNop()),
		alerts: alerts,
		plotID: plot.ID,
	}
}

func TestAlertService_ListAndPlotAlerts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	all, page, err := f.svc.ListAlerts(ctx, etalert.Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 1, page.Page)

	critical, _, err := f.svc.ListAlerts(ctx, etalert.Filter{Severity: model.SeverityCritical})
	require.NoError(t, err)
	require.Len(t, critical, 1)
	assert.Equal(t, int64(1), critical[0].ID)

	plotAlerts, err := f.svc.PlotAlerts(ctx, f.plotID)
	require.NoError(t, err)
	assert.Len(t, plotAlerts, 2)

	_, err = f.svc.PlotAlerts(ctx, 999)
	assert.ErrorIs(t, err, errorx.ErrPlotNotFound)
}

func TestAlertService_Summary(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	summary, err := f.svc.Summary(ctx, 0, false)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 1, summary.CriticalCount)
	assert.Equal(t, 1, summary.BySeverity[model.SeverityHigh])
	assert.Equal(t, 0, summary.BySeverity[model.SeverityLow])
	assert.Equal(t, 1, summary.ByCategory[model.CategoryPhLevel])

	summary, err = f.svc.Summary(ctx, f.plotID, false)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Total)

	_, err = f.svc.ResolveAlert(ctx, 1, "")
	require.NoError(t, err)
	summary, err = f.svc.Summary(ctx, f.plotID, true)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Total)
	assert.Zero(t, summary.CriticalCount)
}

func TestAlertService_GetRecordsViewed(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	detail, err := f.svc.GetAlert(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, model.CategoryPhLevel, detail.Alert.Category)
	require.Len(t, detail.History, 2)
	assert.Equal(t, etalert.ActionCreated, detail.History[0].Action)
	assert.Equal(t, etalert.ActionViewed, detail.History[1].Action)

	_, err = f.svc.GetAlert(ctx, 404)
	assert.ErrorIs(t, err, errorx.ErrAlertNotFound)
}

func TestAlertService_ResolveAndAcknowledge(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, f.svc.Acknowledge(ctx, 3, "on it"))

	alert, err := f.svc.ResolveAlert(ctx, 3, "fixed vent")
	require.NoError(t, err)
	assert.True(t, alert.IsResolved)

	_, err = f.svc.ResolveAlert(ctx, 3, "")
	assert.ErrorIs(t, err, errorx.ErrAlertAlreadyResolved)

	_, err = f.svc.ResolveAlert(ctx, 404, "")
	assert.ErrorIs(t, err, errorx.ErrAlertNotFound)
	assert.ErrorIs(t, f.svc.Acknowledge(ctx, 404, ""), errorx.ErrAlertNotFound)

	history, err := f.alerts.History(ctx, 3)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, etalert.ActionAcknowledged, history[1].Action)
	assert.Equal(t, "on it", history[1].Notes)
	assert.Equal(t, etalert.ActionResolved, history[2].Action)
}
