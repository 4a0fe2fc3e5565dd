package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/citycarcenters/fleetconsole/internal/client/models"
	"github.com/citycarcenters/fleetconsole/internal/client/services"
)

func (a *App) printCars(list models.CarList) {
	if len(list.Cars) == 0 {
		fmt.Fprintln(a.out, "(no cars)")
		return
	}
	for _, c := range list.Cars {
		availability := "available"
		if !c.Available {
			availability = "leased"
		}
		fmt.Fprintf(a.out, "%s  %-20s  %-12s  %8.2f/day  %s\n",
			c.ID, c.Brand+" "+c.ModelName, c.FuelType, c.PricePerDay, availability)
	}
}

func (a *App) listCars(ctx context.Context) {
	list, err := a.cars.All(ctx)
	if err != nil {
		fmt.Fprintln(a.out, "error:", err)
		return
	}
	a.printCars(list)
}

func (a *App) listRecentCars(ctx context.Context) {
	list, err := a.cars.Recent(ctx)
	if err != nil {
		fmt.Fprintln(a.out, "error:", err)
		return
	}
	a.printCars(list)
}

func (a *App) showCar(ctx context.Context, args []string) {
	id, ok := a.requireID(args, "car <id>")
	if !ok {
		return
	}

	details, err := a.cars.Details(ctx, id)
	if err != nil {
		fmt.Fprintln(a.out, "error:", err)
		return
	}
	a.carSel.Select(id, func() {
		fmt.Fprintln(a.out, "\nThe selected car was deleted; detail view closed.")
	})

	c := details.Car
	fmt.Fprintf(a.out, "ID:           %s\n", c.ID)
	fmt.Fprintf(a.out, "Model:        %s %s\n", c.Brand, c.ModelName)
	fmt.Fprintf(a.out, "Color:        %s\n", c.Color)
	fmt.Fprintf(a.out, "Transmission: %s\n", c.Transmission)
	fmt.Fprintf(a.out, "Fuel:         %s\n", c.FuelType)
	fmt.Fprintf(a.out, "A/C:          %t\n", c.AirCondition)
	fmt.Fprintf(a.out, "Price:        %.2f/day\n", c.PricePerDay)
	fmt.Fprintf(a.out, "Available:    %t\n", c.Available)
	if c.Description != "" {
		fmt.Fprintf(a.out, "Description:  %s\n", c.Description)
	}
}

// readCarDraft collects the editable car fields interactively. Image paths
// are read from disk; an empty line skips the upload.
func (a *App) readCarDraft() (services.CarDraft, error) {
	var draft services.CarDraft
	var err error

	if draft.ModelName, err = GetSimpleText(a.reader, "Model name", a.out); err != nil {
		return draft, err
	}
	if draft.Brand, err = GetSimpleText(a.reader, "Brand", a.out); err != nil {
		return draft, err
	}
	if draft.Color, err = GetSimpleText(a.reader, "Color", a.out); err != nil {
		return draft, err
	}
	if draft.Transmission, err = GetSimpleText(a.reader, "Transmission", a.out); err != nil {
		return draft, err
	}
	if draft.FuelType, err = GetSimpleText(a.reader, "Fuel type", a.out); err != nil {
		return draft, err
	}
	if draft.Description, err = GetSimpleText(a.reader, "Description", a.out); err != nil {
		return draft, err
	}
	if draft.AirCondition, err = GetBool(a.reader, "Air condition", a.out); err != nil {
		return draft, err
	}
	if draft.PricePerDay, err = GetNumber(a.reader, "Price per day", a.out); err != nil {
		return draft, err
	}

	paths, err := GetSimpleText(a.reader, "Image files (space-separated, empty to skip)", a.out)
	if err != nil {
		return draft, err
	}
	for _, path := range strings.Fields(paths) {
		data, err := os.ReadFile(path)
		if err != nil {
			return draft, err
		}
		draft.Images = append(draft.Images, services.Image{Filename: filepath.Base(path), Data: data})
	}

	brandPath, err := GetSimpleText(a.reader, "Brand logo file (empty to skip)", a.out)
	if err != nil {
		return draft, err
	}
	if brandPath != "" {
		data, err := os.ReadFile(brandPath)
		if err != nil {
			return draft, err
		}
		draft.BrandImage = &services.Image{Filename: filepath.Base(brandPath), Data: data}
	}

	return draft, nil
}

func (a *App) addCar(ctx context.Context) {
	draft, err := a.readCarDraft()
	if err != nil {
		fmt.Fprintln(a.out, "error:", err)
		return
	}
	if err := a.cars.Create(ctx, draft); err != nil {
		fmt.Fprintln(a.out, "error:", err)
		return
	}
	fmt.Fprintln(a.out, "Car added")
}

func (a *App) updateCar(ctx context.Context, args []string) {
	id, ok := a.requireID(args, "update-car <id>")
	if !ok {
		return
	}
	draft, err := a.readCarDraft()
	if err != nil {
		fmt.Fprintln(a.out, "error:", err)
		return
	}
	if err := a.cars.Update(ctx, id, draft); err != nil {
		fmt.Fprintln(a.out, "error:", err)
		return
	}
	fmt.Fprintln(a.out, "Car updated")
}

func (a *App) deleteCar(ctx context.Context, args []string) {
	id, ok := a.requireID(args, "delete-car <id>")
	if !ok {
		return
	}
	if err := a.cars.Delete(ctx, id); err != nil {
		fmt.Fprintln(a.out, "error:", err)
		return
	}
	fmt.Fprintln(a.out, "Car deleted")
}
