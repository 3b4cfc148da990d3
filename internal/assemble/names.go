package assemble

// Attribute names used by the legacy scientific-data container. The
// global names are CamelCase and the per-band names lower_case because
// that is what two decades of downstream tooling greps for.
const (
	AttrDataProvider         = "DataProvider"
	AttrSatellite            = "Satellite"
	AttrInstrument           = "Instrument"
	AttrAcquisitionDate      = "AcquisitionDate"
	AttrLevel1ProductionDate = "Level1ProductionDate"
	AttrLPGSMetadataFile     = "LPGSMetadataFile"
	AttrSolarZenith          = "SolarZenith"
	AttrSolarAzimuth         = "SolarAzimuth"
	AttrWRSSystem            = "WRS_System"
	AttrWRSPath              = "WRS_Path"
	AttrWRSRow               = "WRS_Row"
	AttrReflGains            = "ReflGains"
	AttrReflBias             = "ReflBias"
	AttrThermalGains         = "ThermalGains"
	AttrThermalBias          = "ThermalBias"
	AttrPanGain              = "PanGain"
	AttrPanBias              = "PanBias"
	AttrULCorner             = "UpperLeftCornerLatLong"
	AttrLRCorner             = "LowerRightCornerLatLong"
	AttrWestBound            = "WestBoundingCoordinate"
	AttrEastBound            = "EastBoundingCoordinate"
	AttrNorthBound           = "NorthBoundingCoordinate"
	AttrSouthBound           = "SouthBoundingCoordinate"
	AttrHDFVersion           = "HDFVersion"
	AttrHDFEOSVersion        = "HDFEOSVersion"
	AttrProductionDate       = "ProductionDate"

	AttrLongName          = "long_name"
	AttrUnits             = "units"
	AttrValidRange        = "valid_range"
	AttrFillValue         = "_FillValue"
	AttrSaturateValue     = "_SaturateValue"
	AttrScaleFactor       = "scale_factor"
	AttrAddOffset         = "add_offset"
	AttrCalibratedNT      = "calibrated_nt"
	AttrBitmapDescription = "Bitmap description"
	AttrClassDescription  = "Class description"
	AttrAppVersion        = "app_version"
)
