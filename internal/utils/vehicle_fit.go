package utils

import "spotshare/internal/db"

// VehicleFits reports whether the vehicle's dimensions fit inside the
// space. A zero dimension on the space means the owner did not restrict it.
func VehicleFits(vehicle *db.Vehicle, space *db.ParkingSpace) bool {
	if space.LengthCM > 0 && vehicle.LengthCM > space.LengthCM {
		return false
	}
	if space.WidthCM > 0 && vehicle.WidthCM > space.WidthCM {
		return false
	}
	if space.HeightCM > 0 && vehicle.HeightCM > space.HeightCM {
		return false
	}
	return true
}
