package domain

import "testing"

func TestMaintenanceMapItemSharesAirQloud(t *testing.T) {
	a := MaintenanceMapItem{DeviceID: "a", AirQlouds: []string{"kampala", "wakiso"}}
	b := MaintenanceMapItem{DeviceID: "b", AirQlouds: []string{"jinja", "wakiso"}}
	c := MaintenanceMapItem{DeviceID: "c", AirQlouds: []string{"jinja"}}
	d := MaintenanceMapItem{DeviceID: "d"}

	if !a.SharesAirQloud(b) {
		t.Errorf("a and b share wakiso, got false")
	}
	if !b.SharesAirQloud(a) {
		t.Errorf("shared membership should be symmetric")
	}
	if a.SharesAirQloud(c) {
		t.Errorf("a and c share nothing, got true")
	}
	if a.SharesAirQloud(d) || d.SharesAirQloud(a) {
		t.Errorf("device without airqlouds should share nothing")
	}
}

func TestMaintenanceMapItemInAirQloud(t *testing.T) {
	d := MaintenanceMapItem{AirQlouds: []string{"kampala"}}
	if !d.InAirQloud("kampala") {
		t.Fatalf("expected membership in kampala")
	}
	if d.InAirQloud("nairobi") {
		t.Fatalf("unexpected membership in nairobi")
	}
}

func TestMaintenanceMapItemCoordinates(t *testing.T) {
	d := MaintenanceMapItem{Latitude: 0.3476, Longitude: 32.5825}
	c := d.Coordinates()
	if c.Lat != 0.3476 || c.Lon != 32.5825 {
		t.Fatalf("coordinates = %+v, want lat=0.3476 lon=32.5825", c)
	}

	list := c.CoordsToList()
	if len(list) != 2 || list[0] != 32.5825 || list[1] != 0.3476 {
		t.Fatalf("CoordsToList = %v, want [lon lat]", list)
	}
}
