package products

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPrefixS2(t *testing.T) {
	prefix, err := GetPrefix("S2A_MSIL2A_20230115T103421_N0509_R108_T32TQM_20230115T134500.SAFE", "s2", "")
	require.NoError(t, err)
	assert.Equal(t, "Sentinel-2/L2A/T32TQM/2023/01/15", prefix)
}

func TestGetPrefixS3(t *testing.T) {
	prefix, err := GetPrefix("S3B_OL_1_EFR____20230115T103421_20230115T103721_20230116T153000_0179_064_236_2160_PS2_O_NT_003.SEN3", "s3", "europe")
	require.NoError(t, err)
	assert.Equal(t, "Sentinel-3/OLCI/L1/europe/2023/01/15", prefix)
}

func TestGetPrefixLandsat(t *testing.T) {
	prefix, err := GetPrefix("LC08_L1TP_190027_20230115_20230124_02_T1", "landsat", "alps")
	require.NoError(t, err)
	assert.Equal(t, "Landsat/L1TP/alps/2023/01/15", prefix)
}

func TestGetPrefixCaseInsensitiveProductType(t *testing.T) {
	prefix, err := GetPrefix("S2A_MSIL1C_20221203T094401_N0400_R036_T33UXP_20221203T114745.SAFE", "S2", "")
	require.NoError(t, err)
	assert.Equal(t, "Sentinel-2/L1C/T33UXP/2022/12/03", prefix)
}

func TestGetPrefixUnsupportedType(t *testing.T) {
	_, err := GetPrefix("foo.tif", "geotiff", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedProductType)
	assert.Contains(t, err.Error(), "geotiff")
}

func TestGetPrefixGrammarMismatch(t *testing.T) {
	_, err := GetPrefix("not-a-product.SAFE", "s2", "")
	require.Error(t, err)

	var gerr *GrammarError
	require.True(t, errors.As(err, &gerr))
	assert.Equal(t, "Sentinel-2", gerr.Family)
	assert.Equal(t, "not-a-product.SAFE", gerr.Filename)
}

func TestParseS2(t *testing.T) {
	id, err := ParseS2("S2B_MSIL1C_20190605T102029_N0207_R065_T32TPS_20190605T122227.SAFE")
	require.NoError(t, err)
	assert.Equal(t, S2Identity{Level: "L1C", Tile: "T32TPS", Year: 2019, Month: 6, Day: 5}, id)
}

func TestParseS3SensorExpansion(t *testing.T) {
	cases := []struct {
		sensor string
		want   string
	}{
		{"OL", "Sentinel-3/OLCI/L2/iberia/2021/07/09"},
		{"SL", "Sentinel-3/SLSTR/L2/iberia/2021/07/09"},
		{"SY", "Sentinel-3/SYNERGY/L2/iberia/2021/07/09"},
	}
	for _, tc := range cases {
		filename := "S3A_" + tc.sensor + "_2_WFR____20210709T094553_x.SEN3"
		id, err := ParseS3(filename)
		require.NoError(t, err, filename)
		assert.Equal(t, tc.want, S3Path("iberia", id))
	}
}

func TestS3PathLevelAlreadyPrefixed(t *testing.T) {
	// Levels arriving with an L keep it rather than gaining a second one.
	got := S3Path("", S3Identity{Sensor: "OL", Level: "L1", Year: 2023, Month: 1, Day: 15})
	assert.Equal(t, "Sentinel-3/OLCI/L1/2023/01/15", got)
}

func TestS3PathEmptyAOIDropsSegment(t *testing.T) {
	id, err := ParseS3("S3B_SL_1_RBT____20230201T010203_x.SEN3")
	require.NoError(t, err)
	assert.Equal(t, "Sentinel-3/SLSTR/L1/2023/02/01", S3Path("", id))
}

func TestParseLandsat(t *testing.T) {
	id, err := ParseLandsat("LE07_L2SP_190027_20051009_20200914_02_T1")
	require.NoError(t, err)
	assert.Equal(t, LandsatIdentity{Collection: "L2SP", Year: 2005, Month: 10, Day: 9}, id)
}

func TestZeroPaddedDates(t *testing.T) {
	id, err := ParseS2("S2A_MSIL2A_20230905T103421_N0509_R108_T32TQM_20230905T134500.SAFE")
	require.NoError(t, err)
	assert.Equal(t, "Sentinel-2/L2A/T32TQM/2023/09/05", S2Path(id))
}
