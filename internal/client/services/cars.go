package services

import (
	"context"
	"net/http"

	"github.com/citycarcenters/fleetconsole/internal/client/api"
	"github.com/citycarcenters/fleetconsole/internal/client/cache"
	"github.com/citycarcenters/fleetconsole/internal/client/models"
	"github.com/citycarcenters/fleetconsole/internal/client/mutation"
)

// CarService covers the fleet: list and detail reads plus the multipart
// create/update calls that carry image uploads.
type CarService struct {
	api       api.Dispatcher
	store     *cache.Store
	mutations *mutation.Controller
}

func NewCarService(d api.Dispatcher, store *cache.Store, mutations *mutation.Controller) *CarService {
	return &CarService{api: d, store: store, mutations: mutations}
}

var carTags = []cache.Tag{cache.TagCars}

// Image is one file attached to a car draft.
type Image struct {
	Filename string
	Data     []byte
}

// CarDraft carries the operator-editable fields of a car. Availability is
// deliberately absent: the server derives it from lease state.
type CarDraft struct {
	ModelName    string
	Brand        string
	Color        string
	Transmission string
	FuelType     string
	Description  string
	AirCondition bool
	PricePerDay  float64
	Images       []Image
	BrandImage   *Image
}

func (s *CarService) All(ctx context.Context) (models.CarList, error) {
	return fetchAs(ctx, s.store, cache.CarsListKey(), carTags, func(ctx context.Context) (models.CarList, error) {
		var list models.CarList
		err := s.api.Do(ctx, http.MethodGet, "/cars", nil, &list)
		return list, err
	})
}

func (s *CarService) Recent(ctx context.Context) (models.CarList, error) {
	return fetchAs(ctx, s.store, cache.RecentCarsKey(), carTags, func(ctx context.Context) (models.CarList, error) {
		var list models.CarList
		err := s.api.Do(ctx, http.MethodGet, "/recent-cars", nil, &list)
		return list, err
	})
}

func (s *CarService) Totals(ctx context.Context) (models.CarCount, error) {
	return fetchAs(ctx, s.store, cache.CarCountKey(), carTags, func(ctx context.Context) (models.CarCount, error) {
		var count models.CarCount
		err := s.api.Do(ctx, http.MethodGet, "/totalCars", nil, &count)
		return count, err
	})
}

func (s *CarService) Details(ctx context.Context, id string) (models.CarDetails, error) {
	return fetchAs(ctx, s.store, cache.CarDetailsKey(id), carTags, func(ctx context.Context) (models.CarDetails, error) {
		var details models.CarDetails
		err := s.api.Do(ctx, http.MethodGet, "/car-details/"+id, nil, &details)
		return details, err
	})
}

// Create adds a car to the fleet. No optimistic patch: the server assigns
// the id, so the confirmed invalidation is what brings the row in.
func (s *CarService) Create(ctx context.Context, draft CarDraft) error {
	return s.mutations.Execute(ctx, mutation.Command{
		Kind: mutation.KindCreate,
		Tags: carTags,
		Dispatch: func(ctx context.Context) error {
			form, err := buildCarForm(draft)
			if err != nil {
				return err
			}
			return s.api.DoMultipart(ctx, http.MethodPost, "/add-car", form, nil)
		},
	})
}

// Update rewrites a car's editable fields. The optimistic patch mirrors the
// draft onto cached rows so the change shows immediately.
func (s *CarService) Update(ctx context.Context, id string, draft CarDraft) error {
	return s.mutations.Execute(ctx, mutation.Command{
		Kind:     mutation.KindUpdate,
		TargetID: id,
		Tags:     carTags,
		Patch:    updateCarPatch(id, draft),
		Dispatch: func(ctx context.Context) error {
			form, err := buildCarForm(draft)
			if err != nil {
				return err
			}
			return s.api.DoMultipart(ctx, http.MethodPost, "/update-car/"+id, form, nil)
		},
	})
}

func (s *CarService) Delete(ctx context.Context, id string) error {
	return s.mutations.Execute(ctx, mutation.Command{
		Kind:     mutation.KindDelete,
		TargetID: id,
		Tags:     carTags,
		Patch: func(data any) any {
			if list, ok := data.(models.CarList); ok {
				return list.Remove(id)
			}
			return data
		},
		Dispatch: func(ctx context.Context) error {
			return s.api.Do(ctx, http.MethodDelete, "/delete-car/"+id, nil, nil)
		},
	})
}

func buildCarForm(draft CarDraft) (*api.Form, error) {
	form := api.NewForm()
	form.SetField("modelName", draft.ModelName)
	form.SetField("brand", draft.Brand)
	form.SetField("color", draft.Color)
	form.SetField("transmission", draft.Transmission)
	form.SetField("fuelType", draft.FuelType)
	form.SetField("description", draft.Description)
	form.SetBool("airCondition", draft.AirCondition)
	form.SetNumber("pricePerDay", draft.PricePerDay)
	for _, img := range draft.Images {
		if err := form.AddImage(img.Filename, img.Data); err != nil {
			return nil, err
		}
	}
	if draft.BrandImage != nil {
		form.SetBrandImage(draft.BrandImage.Filename, draft.BrandImage.Data)
	}
	return form, nil
}

func updateCarPatch(id string, draft CarDraft) mutation.Patch {
	apply := func(c models.Car) models.Car {
		c.ModelName = draft.ModelName
		c.Brand = draft.Brand
		c.Color = draft.Color
		c.Transmission = draft.Transmission
		c.FuelType = draft.FuelType
		c.Description = draft.Description
		c.AirCondition = draft.AirCondition
		c.PricePerDay = draft.PricePerDay
		return c
	}
	return func(data any) any {
		switch v := data.(type) {
		case models.CarList:
			out := models.CarList{Cars: make([]models.Car, len(v.Cars))}
			copy(out.Cars, v.Cars)
			for i := range out.Cars {
				if out.Cars[i].ID == id {
					out.Cars[i] = apply(out.Cars[i])
				}
			}
			return out
		case models.CarDetails:
			if v.Car.ID == id {
				v.Car = apply(v.Car)
			}
			return v
		default:
			return data
		}
	}
}
