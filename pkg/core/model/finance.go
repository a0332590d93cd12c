// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
)

// VehicleLedger holds the aggregated amounts of one vehicle which are
// needed for computing its operational cost, revenue, and profit.
type VehicleLedger struct {
	VehicleID       uuid.UUID
	Name            string
	LicensePlate    string
	AcquisitionCost float64
	FuelCost        float64
	MaintenanceCost float64
	Revenue         float64
}

// OperationalCost is the sum of fuel, maintenance, and acquisition
// costs of the vehicle.
func (l VehicleLedger) OperationalCost() float64 {
	return l.FuelCost + l.MaintenanceCost + l.AcquisitionCost
}

// Profit is the vehicle revenue minus its operational cost.
func (l VehicleLedger) Profit() float64 {
	return l.Revenue - l.OperationalCost()
}

// VehicleFinancials is the per-vehicle row of a financial report.
type VehicleFinancials struct {
	VehicleID       uuid.UUID `json:"vehicle_id"`
	Name            string    `json:"name"`
	LicensePlate    string    `json:"license_plate"`
	FuelCost        float64   `json:"fuel_cost"`
	MaintenanceCost float64   `json:"maintenance_cost"`
	AcquisitionCost float64   `json:"acquisition_cost"`
	OperationalCost float64   `json:"operational_cost"`
	Revenue         float64   `json:"revenue"`
	Profit          float64   `json:"profit"`
}

// Financials expands l into a report row.
func (l VehicleLedger) Financials() VehicleFinancials {
	return VehicleFinancials{
		VehicleID:       l.VehicleID,
		Name:            l.Name,
		LicensePlate:    l.LicensePlate,
		FuelCost:        l.FuelCost,
		MaintenanceCost: l.MaintenanceCost,
		AcquisitionCost: l.AcquisitionCost,
		OperationalCost: l.OperationalCost(),
		Revenue:         l.Revenue,
		Profit:          l.Profit(),
	}
}

// Totals holds fleet-wide revenue, cost, and profit.
type Totals struct {
	Revenue         float64 `json:"revenue"`
	OperationalCost float64 `json:"operational_cost"`
	Profit          float64 `json:"profit"`
}

// FleetKPIs is the command center summary of the fleet.
type FleetKPIs struct {
	Totals
	ActiveFleetCount      int     `json:"active_fleet_count"`
	MaintenanceAlertCount int     `json:"maintenance_alert_count"`
	UtilizationRate       float64 `json:"utilization_rate"`
	PendingCargoCount     int     `json:"pending_cargo_count"`
	ActiveTripCount       int     `json:"active_trip_count"`
	FuelCostThisMonth     float64 `json:"fuel_cost_this_month"`
}

// FinancialReport lists the financials of every vehicle together with
// the fleet totals.
type FinancialReport struct {
	PerVehicle   []VehicleFinancials `json:"per_vehicle"`
	Totals       Totals              `json:"totals"`
	ProfitMargin float64             `json:"profit_margin"`
}

// Month identifies a calendar month. It is used as the bucket key of
// the monthly rollups.
type Month struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

// MonthOf truncates t to its calendar month.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// Before reports if m is an earlier month than o.
func (m Month) Before(o Month) bool {
	if m.Year != o.Year {
		return m.Year < o.Year
	}
	return m.Month < o.Month
}

// MonthlyAmount is one bucket of a monthly rollup.
type MonthlyAmount struct {
	Month
	Amount float64 `json:"amount"`
}

// SortMonthly sorts the amounts ascending by their month.
func SortMonthly(amounts []MonthlyAmount) {
	sort.Slice(amounts, func(i, j int) bool {
		return amounts[i].Month.Before(amounts[j].Month)
	})
}

// MonthlyRollups groups revenue and costs by calendar month and
// lists the most expensive vehicles.
type MonthlyRollups struct {
	RevenueByMonth         []MonthlyAmount     `json:"revenue_by_month"`
	FuelCostByMonth        []MonthlyAmount     `json:"fuel_cost_by_month"`
	MaintenanceCostByMonth []MonthlyAmount     `json:"maintenance_cost_by_month"`
	TopCostVehicles        []VehicleFinancials `json:"top_cost_vehicles"`
}

// Round2 rounds x to two decimal places.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// UtilizationRate is the percentage of non-retired vehicles which are
// on a trip, rounded to two decimal places. It is zero when there is
// no non-retired vehicle.
func UtilizationRate(onTrip, nonRetired int) float64 {
	if nonRetired == 0 {
		return 0
	}
	return Round2(100 * float64(onTrip) / float64(nonRetired))
}

// ProfitMargin is the percentage of profit to revenue, rounded to two
// decimal places. It is zero when revenue is zero.
func ProfitMargin(t Totals) float64 {
	if t.Revenue == 0 {
		return 0
	}
	return Round2(100 * t.Profit / t.Revenue)
}
