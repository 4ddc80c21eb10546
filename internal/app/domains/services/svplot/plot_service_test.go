package svplot

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cropwatch/internal/app/domains/entity/etprimitive"
	"cropwatch/internal/app/domains/entity/etreading"
	"cropwatch/internal/app/domains/modules/mdplot"
	"cropwatch/internal/app/domains/repo/rpplot"
	"cropwatch/internal/app/domains/repo/rpreading"
	"cropwatch/internal/app/infra/persistence/dbtest"
	"cropwatch/internal/app/pkg/errorx"
)

func newService(t *testing.T) *PlotService {
	db := dbtest.NewDB(t)
	return NewPlotService(mdplot.NewPlotModule(rpplot.NewPlotRepository(db), rpreading.NewReadingRepository(db)))
}

func TestPlotService_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	s := newService(t)

	plot, err := s.CreatePlot(ctx, CreatePlotInput{Name: "East", Location: "Hill", CropType: "rice", Size: 1.2})
	require.NoError(t, err)

	got, err := s.GetPlot(ctx, plot.ID)
	require.NoError(t, err)
	assert.Equal(t, "East", got.Name)

	_, err = s.GetPlot(ctx, plot.ID+1)
	assert.ErrorIs(t, err, errorx.ErrPlotNotFound)

	_, err = s.CreatePlot(ctx, CreatePlotInput{Name: "East", Location: "Hill", CropType: "rice"})
	assert.Equal(t, http.StatusBadRequest, errorx.HTTPStatus(err))

	plots, page, err := s.ListPlots(ctx, etprimitive.Pagination{})
	require.NoError(t, err)
	assert.Len(t, plots, 1)
	assert.Equal(t, int64(1), page.Total)
	assert.Equal(t, etprimitive.DefaultPageSize, page.Limit)
}

func TestPlotService_IngestAndLatest(t *testing.T) {
	ctx := context.Background()
	s := newService(t)

	plot, err := s.CreatePlot(ctx, CreatePlotInput{Name: "West", Location: "Flat", CropType: "corn", Size: 3})
	require.NoError(t, err)

	ts := time.Date(2026, 10, 19, 7, 0, 0, 0, time.UTC)
	stored, err := s.IngestReadings(ctx, plot.ID, []ReadingInput{
		{SensorType: "temperature", Value: 22, Timestamp: ts},
		{SensorType: "ph_level", Value: 6.8, Unit: "pH", Timestamp: ts},
		{SensorType: "temperature", Value: 25, Timestamp: ts.Add(time.Minute)},
	}, etreading.SourceMQTT)
	require.NoError(t, err)
	require.Len(t, stored, 3)
	assert.Equal(t, etreading.SourceMQTT, stored[0].Source)

	latest, err := s.LatestReadings(ctx, plot.ID)
	require.NoError(t, err)
	require.Len(t, latest, 2)
	assert.Equal(t, 25.0, latest[0].Value)

	_, err = s.IngestReadings(ctx, plot.ID, []ReadingInput{{SensorType: "co2", Value: 400}}, "")
	assert.Equal(t, http.StatusBadRequest, errorx.HTTPStatus(err))
	assert.ErrorContains(t, err, "readings[0]")

	_, err = s.IngestReadings(ctx, plot.ID+9, []ReadingInput{{SensorType: "humidity", Value: 50}}, "")
	assert.ErrorIs(t, err, errorx.ErrPlotNotFound)

	_, err = s.IngestReadings(ctx, plot.ID, nil, "")
	assert.Error(t, err)

	_, err = s.LatestReadings(ctx, plot.ID+9)
	assert.ErrorIs(t, err, errorx.ErrPlotNotFound)
}

func TestPlotService_ListReadings(t *testing.T) {
	ctx := context.Background()
	s := newService(t)

	plot, err := s.CreatePlot(ctx, CreatePlotInput{Name: "West", Location: "Delta", CropType: "maize", Size: 3})
	require.NoError(t, err)

	_, err = s.IngestReadings(ctx, plot.ID, []ReadingInput{
		{SensorType: "hum", Value: 70},
		{SensorType: "ph", Value: 6.4},
	}, etreading.SourceMQTT)
	require.NoError(t, err)

	readings, page, err := s.ListReadings(ctx, etreading.Filter{PlotID: plot.ID})
	require.NoError(t, err)
	assert.Len(t, readings, 2)
	assert.EqualValues(t, 2, page.Total)
	assert.Equal(t, etprimitive.DefaultPageSize, page.Limit)

	_, _, err = s.ListReadings(ctx, etreading.Filter{PlotID: plot.ID + 1})
	assert.ErrorIs(t, err, errorx.ErrPlotNotFound)
}
