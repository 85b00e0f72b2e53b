// Copyright 2025 Sample Data Authors

// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at

//     http://www.apache.org/licenses/LICENSE-2.0

// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package datasets

import "context"

// AirTemperature loads a NetCDF dataset of air temperature measurements on a
// (time, lat, lon) grid as a *grid.Dataset. Temperature values widen to
// float64 regardless of the on-disk encoding.
func AirTemperature(ctx context.Context, cfg *LoadConfig) (any, error) {
	return load(ctx, "air_temperature", nil, cfg)
}

// Airplane loads a grayscale aerial photograph of an airplane as a 2-d
// *grid.Array of luminance values with dims (y, x).
func Airplane(ctx context.Context, cfg *LoadConfig) (any, error) {
	return load(ctx, "airplane", nil, cfg)
}
