package felicity_modbus

const (
	ModelTrex10KLP3G01 = "T-REX-10KLP3G01"
)

func reg(key, name string, address uint16, scale ScaleKind, precision uint8) RegisterDescriptor {
	return RegisterDescriptor{
		Key:       key,
		Name:      name,
		Address:   address,
		Size:      1,
		Endian:    BigEndian,
		Scale:     scale,
		Precision: precision,
	}
}

func (d RegisterDescriptor) words(size uint16) RegisterDescriptor {
	d.Size = size
	return d
}

func (d RegisterDescriptor) little() RegisterDescriptor {
	d.Endian = LittleEndian
	return d
}

func (d RegisterDescriptor) unit(unit, deviceClass, stateClass string) RegisterDescriptor {
	d.Unit = unit
	d.DeviceClass = deviceClass
	d.StateClass = stateClass
	return d
}

func (d RegisterDescriptor) options(opts ...string) RegisterDescriptor {
	d.Options = opts
	return d
}

// trex10KRegisters is the holding register map of the T-REX 5K/10K low voltage family.
func trex10KRegisters() []RegisterDescriptor {
	return []RegisterDescriptor{
		reg("setting_data_sn", "Setting Data Sn", 4352, ScaleRaw, 0),
		reg("working_mode", "Working Mode", 4353, ScaleEnumIndex, 0).options("Power On", "Standby", "Bypass", "Off-grid", "Fault", "Line", "PV Charge"),
		reg("warning_state_1", "Warning State 1", 4354, ScaleRaw, 0).words(2),
		reg("warning_state_2", "Warning State 2", 4356, ScaleRaw, 0).words(2),
		reg("warning_state_3", "Warning State 3", 4358, ScaleRaw, 0).words(2),
		reg("fault_code", "Fault Code", 4360, ScaleRaw, 0),
		reg("ac_input_voltage", "Ac Input Voltage", 4361, ScaleDiv10, 1).unit("V", "voltage", "measurement"),
		reg("ac_input_current", "Ac Input Current", 4362, ScaleDiv10, 1).unit("A", "current", "measurement"),
		reg("ac_input_frequency", "Ac Input Frequency", 4363, ScaleDiv100, 2).unit("Hz", "frequency", "measurement"),
		reg("ac_input_power", "Ac Input Power", 4364, ScaleSigned, 0).unit("W", "power", "measurement"),
		reg("battery_voltage", "Battery Voltage", 4365, ScaleDiv10, 1).unit("V", "voltage", "measurement"),
		reg("battery_current", "Battery Current", 4366, ScaleSigned, 1).unit("A", "current", "measurement"),
		reg("battery_power", "Battery Power", 4367, ScaleSigned, 0).unit("W", "power", "measurement"),
		reg("battery_capacity", "Battery Capacity", 4368, ScaleDiv10, 1).unit("%", "battery", "measurement"),
		reg("ac_output_voltage", "Ac Output Voltage", 4369, ScaleDiv10, 1).unit("V", "voltage", "measurement"),
		reg("ac_output_current", "Ac Output Current", 4370, ScaleDiv10, 1).unit("A", "current", "measurement"),
		reg("ac_output_frequency", "Ac Output Frequency", 4371, ScaleDiv100, 2).unit("Hz", "frequency", "measurement"),
		reg("ac_output_active_power", "Ac Output Active Power", 4372, ScaleRaw, 0).unit("W", "power", "measurement"),
		reg("ac_output_apparent_power", "Ac Output Apparent Power", 4373, ScaleRaw, 0).unit("VA", "apparent_power", "measurement"),
		reg("load_percentage", "Load Percentage", 4374, ScaleRaw, 0).unit("%", "", "measurement"),
		reg("pv_input_voltage", "Pv Input Voltage", 4375, ScaleDiv10, 1).unit("V", "voltage", "measurement"),
		reg("pv_input_current", "Pv Input Current", 4376, ScaleDiv10, 1).unit("A", "current", "measurement"),
		reg("pv_input_power", "Pv Input Power", 4377, ScaleRaw, 0).unit("W", "power", "measurement"),
		reg("pv2_input_voltage", "Pv2 Input Voltage", 4378, ScaleDiv10, 1).unit("V", "voltage", "measurement"),
		reg("pv2_input_current", "Pv2 Input Current", 4379, ScaleDiv10, 1).unit("A", "current", "measurement"),
		reg("pv2_input_power", "Pv2 Input Power", 4380, ScaleRaw, 0).unit("W", "power", "measurement"),
		reg("pv3_input_voltage", "Pv3 Input Voltage", 4381, ScaleDiv10, 1).unit("V", "voltage", "measurement"),
		reg("pv3_input_current", "Pv3 Input Current", 4382, ScaleDiv10, 1).unit("A", "current", "measurement"),
		reg("pv3_input_power", "Pv3 Input Power", 4383, ScaleRaw, 0).unit("W", "power", "measurement"),
		reg("ac_input_voltage_l2", "Ac Input Voltage L2", 4384, ScaleDiv10, 1).unit("V", "voltage", "measurement"),
		reg("ac_input_current_l2", "Ac Input Current L2", 4385, ScaleDiv10, 1).unit("A", "current", "measurement"),
		reg("ac_input_frequency_l2", "Ac Input Frequency L2", 4386, ScaleDiv100, 2).unit("Hz", "frequency", "measurement"),
		reg("ac_input_power_l2", "Ac Input Power L2", 4387, ScaleSigned, 0).unit("W", "power", "measurement"),
		reg("ac_input_voltage_l3", "Ac Input Voltage L3", 4388, ScaleDiv10, 1).unit("V", "voltage", "measurement"),
		reg("ac_input_current_l3", "Ac Input Current L3", 4389, ScaleDiv10, 1).unit("A", "current", "measurement"),
		reg("ac_input_frequency_l3", "Ac Input Frequency L3", 4390, ScaleDiv100, 2).unit("Hz", "frequency", "measurement"),
		reg("ac_input_power_l3", "Ac Input Power L3", 4391, ScaleSigned, 0).unit("W", "power", "measurement"),
		reg("total_ac_input_power", "Total Ac Input Power", 4392, ScaleSigned, 0).words(2).unit("W", "power", "measurement"),
		reg("ac_output_voltage_l2", "Ac Output Voltage L2", 4394, ScaleDiv10, 1).unit("V", "voltage", "measurement"),
		reg("ac_output_current_l2", "Ac Output Current L2", 4395, ScaleDiv10, 1).unit("A", "current", "measurement"),
		reg("ac_output_frequency_l2", "Ac Output Frequency L2", 4396, ScaleDiv100, 2).unit("Hz", "frequency", "measurement"),
		reg("ac_output_active_power_l2", "Ac Output Active Power L2", 4397, ScaleRaw, 0).unit("W", "power", "measurement"),
		reg("ac_output_apparent_power_l2", "Ac Output Apparent Power L2", 4398, ScaleRaw, 0).unit("VA", "apparent_power", "measurement"),
		reg("ac_output_voltage_l3", "Ac Output Voltage L3", 4399, ScaleDiv10, 1).unit("V", "voltage", "measurement"),
		reg("ac_output_current_l3", "Ac Output Current L3", 4400, ScaleDiv10, 1).unit("A", "current", "measurement"),
		reg("ac_output_frequency_l3", "Ac Output Frequency L3", 4401, ScaleDiv100, 2).unit("Hz", "frequency", "measurement"),
		reg("ac_output_active_power_l3", "Ac Output Active Power L3", 4402, ScaleRaw, 0).unit("W", "power", "measurement"),
		reg("ac_output_apparent_power_l3", "Ac Output Apparent Power L3", 4403, ScaleRaw, 0).unit("VA", "apparent_power", "measurement"),
		reg("total_ac_output_active_power", "Total Ac Output Active Power", 4404, ScaleRaw, 0).words(2).unit("W", "power", "measurement"),
		reg("total_ac_output_apparent_power", "Total Ac Output Apparent Power", 4406, ScaleRaw, 0).words(2).unit("VA", "apparent_power", "measurement"),
		reg("invert_voltage", "Invert Voltage", 4408, ScaleDiv10, 1).unit("V", "voltage", "measurement"),
		reg("invert_current", "Invert Current", 4409, ScaleSigned, 1).unit("A", "current", "measurement"),
		reg("invert_active_power", "Invert Active Power", 4410, ScaleSigned, 0).unit("W", "power", "measurement"),
		reg("invert_voltage_l2", "Invert Voltage L2", 4411, ScaleDiv10, 1).unit("V", "voltage", "measurement"),
		reg("invert_current_l2", "Invert Current L2", 4412, ScaleSigned, 1).unit("A", "current", "measurement"),
		reg("invert_active_power_l2", "Invert Active Power L2", 4413, ScaleSigned, 0).unit("W", "power", "measurement"),
		reg("invert_voltage_l3", "Invert Voltage L3", 4414, ScaleDiv10, 1).unit("V", "voltage", "measurement"),
		reg("invert_current_l3", "Invert Current L3", 4415, ScaleSigned, 1).unit("A", "current", "measurement"),
		reg("invert_active_power_l3", "Invert Active Power L3", 4416, ScaleSigned, 0).unit("W", "power", "measurement"),
		reg("ac_input_mid_voltage", "Ac Input Mid Voltage", 4417, ScaleDiv10, 1).unit("V", "voltage", "measurement"),
		reg("ac_input_mid_voltage_l2", "Ac Input Mid Voltage L2", 4418, ScaleDiv10, 1).unit("V", "voltage", "measurement"),
		reg("ac_input_mid_voltage_l3", "Ac Input Mid Voltage L3", 4419, ScaleDiv10, 1).unit("V", "voltage", "measurement"),
		reg("p_bus_voltage_master", "P Bus Voltage Master", 4420, ScaleDiv10, 1).unit("V", "voltage", "measurement"),
		reg("n_bus_voltage_master", "N Bus Voltage Master", 4421, ScaleDiv10, 1).unit("V", "voltage", "measurement"),
		reg("p_dc_converter_voltage", "P Dc Converter Voltage", 4422, ScaleDiv10, 1).unit("V", "voltage", "measurement"),
		reg("n_dc_converter_voltage", "N Dc Converter Voltage", 4423, ScaleDiv10, 1).unit("V", "voltage", "measurement"),
		reg("p_dc_dc_current", "P Dc/Dc Current", 4424, ScaleSigned, 1).unit("A", "current", "measurement"),
		reg("n_dc_dc_current", "N Dc/Dc Current", 4425, ScaleSigned, 1).unit("A", "current", "measurement"),
		reg("inner_temperature_1", "Inner Temperature 1", 4426, ScaleDiv10, 1).unit("°C", "temperature", "measurement"),
		reg("inner_temperature_2", "Inner Temperature 2", 4427, ScaleDiv10, 1).unit("°C", "temperature", "measurement"),
		reg("heatsink_temperature_1", "Heatsink Temperature 1", 4428, ScaleDiv10, 1).unit("°C", "temperature", "measurement"),
		reg("heatsink_temperature_2", "Heatsink Temperature 2", 4429, ScaleDiv10, 1).unit("°C", "temperature", "measurement"),
		reg("heatsink_temperature_3", "Heatsink Temperature 3", 4430, ScaleDiv10, 1).unit("°C", "temperature", "measurement"),
		reg("heatsink_temperature_4", "Heatsink Temperature 4", 4431, ScaleDiv10, 1).unit("°C", "temperature", "measurement"),
		reg("heatsink_temperature_5", "Heatsink Temperature 5", 4432, ScaleDiv10, 1).unit("°C", "temperature", "measurement"),
		reg("heatsink_temperature_6", "Heatsink Temperature 6", 4433, ScaleDiv10, 1).unit("°C", "temperature", "measurement"),
		reg("time_year_month", "Time Year-Month", 4434, ScaleOpaque99, 0),
		reg("time_day_hour", "Time Day-Hour", 4435, ScaleOpaque99, 0),
		reg("time_minute_second", "Time Minute-Second", 4436, ScaleOpaque99, 0),
		reg("time_week", "Time Week", 4437, ScaleOpaque99, 0),
		reg("pv_generated_energy_total", "Pv Generated Energy Inquiry Total-High 32 Bit", 4438, ScaleRaw, 0).words(4).unit("Wh", "energy", "total_increasing"),
		reg("pv_generated_energy_year", "Pv Generated Energy Inquiry Year", 4442, ScaleRaw, 0).words(2).unit("Wh", "energy", "total_increasing"),
		reg("pv_generated_energy_month", "Pv Generated Energy Inquiry Month", 4444, ScaleRaw, 0).words(2).unit("Wh", "energy", "total_increasing"),
		reg("pv_generated_energy_day", "Pv Generated Energy Inquiry Day", 4446, ScaleRaw, 0).words(2).unit("Wh", "energy", "total_increasing"),
		reg("load_consumption_energy_total", "Load Consumption Energy Inquiry Total-High 32 Bit", 4448, ScaleRaw, 0).words(4).unit("Wh", "energy", "total_increasing"),
		reg("load_consumption_energy_year", "Load Consumption Energy Inquiry Year", 4452, ScaleRaw, 0).words(2).unit("Wh", "energy", "total_increasing"),
		reg("load_consumption_energy_month", "Load Consumption Energy Inquiry Month", 4454, ScaleRaw, 0).words(2).unit("Wh", "energy", "total_increasing"),
		reg("load_consumption_energy_day", "Load Consumption Energy Inquiry Day", 4456, ScaleRaw, 0).words(2).unit("Wh", "energy", "total_increasing"),
		reg("ac_input_energy_total", "Ac Input Energy Inquiry Total-High 32 Bit", 4458, ScaleRaw, 0).words(4).unit("Wh", "energy", "total_increasing"),
		reg("ac_input_energy_year", "Ac Input Energy Inquiry Year", 4462, ScaleRaw, 0).words(2).unit("Wh", "energy", "total_increasing"),
		reg("ac_input_energy_month", "Ac Input Energy Inquiry Month", 4464, ScaleRaw, 0).words(2).unit("Wh", "energy", "total_increasing"),
		reg("ac_input_energy_day", "Ac Input Energy Inquiry Day", 4466, ScaleRaw, 0).words(2).unit("Wh", "energy", "total_increasing"),
		reg("ac_generated_energy_total", "Ac Generated Energy Inquiry Total-High 32 Bit", 4468, ScaleRaw, 0).words(4).unit("Wh", "energy", "total_increasing"),
		reg("ac_generated_energy_year", "Ac Generated Energy Inquiry Year", 4472, ScaleRaw, 0).words(2).unit("Wh", "energy", "total_increasing"),
		reg("ac_generated_energy_month", "Ac Generated Energy Inquiry Month", 4474, ScaleRaw, 0).words(2).unit("Wh", "energy", "total_increasing"),
		reg("ac_generated_energy_day", "Ac Generated Energy Inquiry Day", 4476, ScaleRaw, 0).words(2).unit("Wh", "energy", "total_increasing"),
		reg("battery_charged_energy_total", "Battery Charged Energy Inquiry Total-High 32 Bit", 4478, ScaleRaw, 0).words(4).unit("Wh", "energy", "total_increasing"),
		reg("battery_charged_energy_year", "Battery Charged Energy Inquiry Year", 4482, ScaleRaw, 0).words(2).unit("Wh", "energy", "total_increasing"),
		reg("battery_charged_energy_month", "Battery Charged Energy Inquiry Month", 4484, ScaleRaw, 0).words(2).unit("Wh", "energy", "total_increasing"),
		reg("battery_charged_energy_day", "Battery Charged Energy Inquiry Day", 4486, ScaleRaw, 0).words(2).unit("Wh", "energy", "total_increasing"),
		reg("battery_discharged_energy_total", "Battery Discharged Energy Inquiry Total-High 32 Bit", 4488, ScaleRaw, 0).words(4).unit("Wh", "energy", "total_increasing"),
		reg("battery_discharged_energy_year", "Battery Discharged Energy Inquiry Year", 4492, ScaleRaw, 0).words(2).unit("Wh", "energy", "total_increasing"),
		reg("battery_discharged_energy_month", "Battery Discharged Energy Inquiry Month", 4494, ScaleRaw, 0).words(2).unit("Wh", "energy", "total_increasing"),
		reg("battery_discharged_energy_day", "Battery Discharged Energy Inquiry Day", 4496, ScaleRaw, 0).words(2).unit("Wh", "energy", "total_increasing"),
		reg("status_bit", "Status Bit", 4498, ScaleRaw, 0),
		reg("p_bus_voltage_slv", "P Bus Voltage_Slv", 4499, ScaleDiv10, 1).unit("V", "voltage", "measurement"),
		reg("n_bus_voltage_slv", "N Bus Voltage_Slv", 4500, ScaleDiv10, 1).unit("V", "voltage", "measurement"),
		reg("line_power_conversion", "Linepowerconversion", 4501, ScaleRaw, 0).words(2).unit("W", "power", "measurement"),
		reg("load_power_conversion", "Loadpowerconversion", 4503, ScaleRaw, 0).words(2).unit("W", "power", "measurement"),
		reg("bat_power_conversion", "Batpowerconversion", 4505, ScaleRaw, 0).unit("W", "power", "measurement"),
		reg("pv_power_conversion", "Pvpowerconversion", 4506, ScaleRaw, 0).unit("W", "power", "measurement"),
		reg("power_flow_msg", "Powerflowmsg", 4507, ScaleRaw, 0),
		reg("parallel_system_state", "Parallel system state", 4508, ScaleRaw, 0),
		reg("load_power_line_side", "Loadpower_Lineside", 4509, ScaleRaw, 0).words(2).unit("W", "power", "measurement"),
		reg("g_uw_exist_num_parallel", "G_Uwexistnum_Parallel", 4511, ScaleRaw, 0),
		reg("log_type", "Log Type", 4516, ScaleRaw, 0),
		reg("log_index", "Log Index", 4517, ScaleRaw, 0),
		reg("log_status", "Log Status", 4518, ScaleRaw, 0),
		reg("log_id", "Log Id", 4519, ScaleRaw, 0),
		reg("log_time_year_month", "Log Time Year-Month", 4520, ScaleOpaque99, 0),
		reg("log_time_day_hour", "Log Time Day-Hour", 4521, ScaleOpaque99, 0),
		reg("log_time_minute_second", "Log Time Minute-Second", 4522, ScaleOpaque99, 0),
		reg("ac_input_voltage_secondary", "Ac Input Voltage secondary", 4523, ScaleDiv10, 1).unit("V", "voltage", "measurement"),
		reg("ac_input_frequency_secondary", "Ac Input Frequency secondary", 4524, ScaleDiv100, 2).unit("Hz", "frequency", "measurement"),
		reg("ac_input_power_secondary", "Ac Input Power secondary", 4525, ScaleSigned, 0).unit("W", "power", "measurement"),
		reg("battery_voltage_secondary", "Battery Voltage secondary", 4526, ScaleDiv10, 1).unit("V", "voltage", "measurement"),
		reg("battery_power_secondary", "Battery Power secondary", 4527, ScaleSigned, 0).unit("W", "power", "measurement"),
		reg("battery_capacity_secondary", "Battery Capacity secondary", 4528, ScaleDiv10, 0).unit("%", "battery", "measurement"),
		reg("ac_output_voltage_secondary", "Ac Output Voltage secondary", 4529, ScaleDiv10, 1).unit("V", "voltage", "measurement"),
		reg("ac_output_frequency_secondary", "Ac Output Frequency secondary", 4530, ScaleDiv100, 2).unit("Hz", "frequency", "measurement"),
		reg("ac_output_active_power_secondary", "Ac Output Active Power  secondary", 4531, ScaleRaw, 0).unit("W", "power", "measurement"),
		reg("ac_output_apparent_power_secondary", "Ac Output Apparent Power secondary", 4532, ScaleRaw, 0).unit("VA", "apparent_power", "measurement"),
		reg("load_percentage_secondary", "Load Percentage secondary", 4533, ScaleRaw, 0).unit("%", "", "measurement"),
		reg("pv_input_voltage_secondary", "Pv Input Voltage secondary", 4534, ScaleDiv10, 1).unit("V", "voltage", "measurement"),
		reg("pv_input_power_secondary", "Pv Input Power secondary", 4535, ScaleRaw, 0).unit("W", "power", "measurement"),
		reg("pv2_input_voltage_secondary", "Pv2 Input Voltage  secondary", 4536, ScaleDiv10, 1).unit("V", "voltage", "measurement"),
		reg("pv2_input_power_secondary", "Pv2 Input Power secondary", 4537, ScaleRaw, 0).unit("W", "power", "measurement"),
		reg("pv3_input_voltage_secondary", "Pv3 Input Voltage secondary", 4538, ScaleDiv10, 1).unit("V", "voltage", "measurement"),
		reg("pv3_input_power_secondary", "Pv3 Input Power  secondary", 4539, ScaleRaw, 0).unit("W", "power", "measurement"),
		reg("ac_input_voltage_l2_secondary", "Ac Input Voltage L2 secondary", 4540, ScaleDiv10, 1).unit("V", "voltage", "measurement"),
		reg("ac_input_frequency_l2_secondary", "Ac Input Frequency L2 secondary", 4541, ScaleDiv100, 2).unit("Hz", "frequency", "measurement"),
		reg("ac_input_power_l2_secondary", "Ac Input Power L2 secondary", 4542, ScaleSigned, 0).unit("W", "power", "measurement"),
		reg("ac_input_voltage_l3_secondary", "Ac Input Voltage L3 secondary", 4543, ScaleDiv10, 1).unit("V", "voltage", "measurement"),
		reg("ac_input_frequency_l3_secondary", "Ac Input Frequency L3 secondary", 4544, ScaleDiv100, 2).unit("Hz", "frequency", "measurement"),
		reg("ac_input_power_l3_secondary", "Ac Input Power L3 secondary", 4545, ScaleSigned, 0).unit("W", "power", "measurement"),
		reg("ac_output_voltage_l2_secondary", "Ac Output Voltage L2 secondary", 4546, ScaleDiv10, 1).unit("V", "voltage", "measurement"),
		reg("ac_output_frequency_l2_secondary", "Ac Output Frequency L2 secondary", 4547, ScaleDiv100, 2).unit("Hz", "frequency", "measurement"),
		reg("ac_output_active_power_l2_secondary", "Ac Output Active Power L2 secondary", 4548, ScaleRaw, 0).unit("W", "power", "measurement"),
		reg("ac_output_apparent_power_l2_secondary", "Ac Output Apparent Power L2 secondary", 4549, ScaleRaw, 0).unit("VA", "apparent_power", "measurement"),
		reg("ac_output_voltage_l3_secondary", "Ac Output Voltage L3 secondary", 4550, ScaleDiv10, 1).unit("V", "voltage", "measurement"),
		reg("ac_output_frequency_l3_secondary", "Ac Output Frequency L3 secondary", 4551, ScaleDiv100, 2).unit("Hz", "frequency", "measurement"),
		reg("ac_output_active_power_l3_secondary", "Ac Output Active Power L3 secondary", 4552, ScaleRaw, 0).unit("W", "power", "measurement"),
		reg("ac_output_apparent_power_l3_secondary", "Ac Output Apparent Power L3 secondary", 4553, ScaleRaw, 0).unit("VA", "apparent_power", "measurement"),
		reg("p_bus_voltage", "P Bus Voltage", 4554, ScaleDiv10, 1).unit("V", "voltage", "measurement"),
		reg("n_bus_voltage", "N Bus Voltage", 4555, ScaleDiv10, 1).unit("V", "voltage", "measurement"),
		reg("p_dc_dc_current_secondary", "P Dc/Dc Current  secondary", 4556, ScaleSignedDiv10, 1).unit("A", "current", "measurement"),
		reg("n_dc_dc_current_secondary", "N Dc/Dc Current  secondary", 4557, ScaleSignedDiv10, 1).unit("A", "current", "measurement"),
		reg("max_inner_temperature", "Max. Inner Temperature", 4558, ScaleSignedDiv10, 1).unit("°C", "temperature", "measurement"),
		reg("max_heat_sink_temperature", "Max. Heat-Sink Temperature", 4559, ScaleSignedDiv10, 1).unit("°C", "temperature", "measurement"),
		reg("charge_voltage_limit", "Chargevoltagelimit", 4608, ScaleDiv10, 1).unit("V", "voltage", "measurement"),
		reg("discharge_voltage_limit", "Dischargevoltagelimit", 4609, ScaleDiv10, 1).unit("V", "voltage", "measurement"),
		reg("charge_current_limit", "Chargecurrentlimit", 4610, ScaleDiv10, 1).unit("A", "current", "measurement"),
		reg("discharge_current_limit", "Dischargecurrentlimit", 4611, ScaleDiv10, 1).unit("A", "current", "measurement"),
		reg("bms_status_lo", "Bmsstatuslo", 4612, ScaleRaw, 0),
		reg("bms_status_hi", "Bmsstatushi", 4613, ScaleRaw, 0),
		reg("fault_flag_lo", "Faultflaglo", 4614, ScaleRaw, 0),
		reg("fault_flag_hi", "Faultflaghi", 4615, ScaleRaw, 0),
		reg("alarm_flag_lo", "Alarmflaglo", 4616, ScaleRaw, 0),
		reg("alarm_flag_hi", "Alarmflaghi", 4617, ScaleRaw, 0),
		reg("notice_flag_low", "Noticeflaglow", 4618, ScaleRaw, 0),
		reg("notice_flag_high", "Noticeflaghigh", 4619, ScaleRaw, 0),
		reg("total_current", "Totalcurrent", 4620, ScaleDiv10, 1).unit("A", "current", "measurement"),
		reg("total_voltage", "Totalvoltage", 4621, ScaleDiv100, 2).unit("V", "voltage", "measurement"),
		reg("total_soc", "Totalsoc", 4624, ScaleDiv10, 1).unit("%", "battery", "measurement"),
		reg("total_soh", "Totalsoh", 4625, ScaleDiv10, 1).unit("%", "", "measurement"),
		reg("total_capacity_high", "Totalcapacityhigh", 4626, ScaleRaw, 0).unit("mAH", "", ""),
		reg("total_capacity_low", "Totalcapacitylow", 4627, ScaleRaw, 0).unit("mAH", "", ""),
		reg("parallel_number", "Parallelnumber", 4628, ScaleRaw, 0),
		reg("parallel_status", "Parallelstatus", 4629, ScaleRaw, 0),
		reg("line_load_consumption_energy_total", "Lineload Consumption Energy Inquiry Total-High 32 Bit", 4645, ScaleRaw, 0).words(4).unit("Wh", "energy", "total_increasing"),
		reg("line_load_consumption_energy_year", "Lineload Consumption Energy Inquiry Year", 4649, ScaleRaw, 0).words(2).unit("Wh", "energy", "total_increasing"),
		reg("line_load_consumption_energy_month", "Lineload Consumption Energy Inquiry Month", 4651, ScaleRaw, 0).words(2).unit("Wh", "energy", "total_increasing"),
		reg("line_load_consumption_energy_day", "Lineload Consumption Energy Inquiry Day", 4653, ScaleRaw, 0).words(2).unit("Wh", "energy", "total_increasing"),
		reg("total_load_consumption_energy_total", "Totalload Consumption Energy Inquiry Total-High 32 Bit", 4655, ScaleRaw, 0).words(4).unit("Wh", "energy", "total_increasing"),
		reg("total_load_consumption_energy_year", "Totalload Consumption Energy Inquiry Year", 4659, ScaleRaw, 0).words(2).unit("Wh", "energy", "total_increasing"),
		reg("total_load_consumption_energy_month", "Totalload Consumption Energy Inquiry Month", 4661, ScaleRaw, 0).words(2).unit("Wh", "energy", "total_increasing"),
		reg("total_load_consumption_energy_day", "Totalload Consumption Energy Inquiry Day", 4663, ScaleRaw, 0).words(2).unit("Wh", "energy", "total_increasing"),
		reg("operating_mode", "Operating Mode", 8451, ScaleEnumIndex, 0).options("General mode (self-use, load priority)", "Backup mode (grid-tied, no battery discharge)", "Economic mode (scheduled charge-discharge)"),
		reg("time_set_year_month", "Time Setting Year-Month", 8560, ScaleOpaque99, 0),
		reg("time_set_day_hour", "Time Setting Day-Hour", 8561, ScaleOpaque99, 0),
		reg("time_set_minute_second", "Time Setting Minute-Second", 8562, ScaleOpaque99, 0),
		reg("time_set_week", "Time Setting Week", 8563, ScaleOpaque99, 0),
		reg("econ_rule_1_enable", "Economic Mode Rule 1 Enable", 8568, ScaleEnumIndex, 0).options("Disabled", "Charge", "Discharge"),
		reg("econ_rule_1_start_time", "Rule 1 Start Time", 8569, ScaleRaw, 0),
		reg("econ_rule_1_stop_time", "Rule 1 Stop Time", 8570, ScaleRaw, 0),
		reg("econ_rule_1_start_day", "Rule 1 Start Date", 8571, ScaleRaw, 0),
		reg("econ_rule_1_stop_day", "Rule 1 Stop Date", 8572, ScaleRaw, 0),
		reg("econ_rule_1_effective_week", "Rule 1 Effective Days", 8573, ScaleRaw, 0),
		reg("econ_rule_1_voltage", "Rule 1 Voltage", 8574, ScaleDiv10, 1).unit("V", "voltage", ""),
		reg("econ_rule_1_soc", "Rule 1 SOC", 8575, ScaleRaw, 0).unit("%", "battery", ""),
		reg("econ_rule_1_power", "Rule 1 Power", 8576, ScaleRaw, 0).unit("W", "power", ""),
		reg("econ_rule_2_enable", "Economic Mode Rule 2 Enable", 8577, ScaleEnumIndex, 0).options("Disabled", "Charge", "Discharge"),
		reg("econ_rule_2_start_time", "Rule 2 Start Time", 8578, ScaleRaw, 0),
		reg("econ_rule_2_stop_time", "Rule 2 Stop Time", 8579, ScaleRaw, 0),
		reg("econ_rule_2_start_day", "Rule 2 Start Day", 8580, ScaleRaw, 0),
		reg("econ_rule_2_stop_day", "Rule 2 Stop Day", 8581, ScaleRaw, 0),
		reg("econ_rule_2_effective_week", "Rule 2 Effective Week", 8582, ScaleRaw, 0),
		reg("econ_rule_2_voltage", "Rule 2 Voltage", 8583, ScaleDiv10, 1).unit("V", "voltage", ""),
		reg("econ_rule_2_soc", "Rule 2 SOC", 8584, ScaleRaw, 0).unit("%", "battery", ""),
		reg("econ_rule_2_power", "Rule 2 Power", 8585, ScaleRaw, 0).unit("W", "power", ""),
		reg("econ_rule_3_enable", "Economic Mode Rule 3 Enable", 8586, ScaleEnumIndex, 0).options("Disabled", "Charge", "Discharge"),
		reg("econ_rule_3_start_time", "Rule 3 Start Time", 8587, ScaleRaw, 0),
		reg("econ_rule_3_stop_time", "Rule 3 Stop Time", 8588, ScaleRaw, 0),
		reg("econ_rule_3_start_day", "Rule 3 Start Day", 8589, ScaleRaw, 0),
		reg("econ_rule_3_stop_day", "Rule 3 Stop Day", 8590, ScaleRaw, 0),
		reg("econ_rule_3_effective_week", "Rule 3 Effective Week", 8591, ScaleRaw, 0),
		reg("econ_rule_3_voltage", "Rule 3 Voltage", 8592, ScaleDiv10, 1).unit("V", "voltage", ""),
		reg("econ_rule_3_soc", "Rule 3 SOC", 8593, ScaleRaw, 0).unit("%", "battery", ""),
		reg("econ_rule_3_power", "Rule 3 Power", 8594, ScaleRaw, 0).unit("W", "power", ""),
		reg("econ_rule_4_enable", "Economic Mode Rule 4 Enable", 8595, ScaleEnumIndex, 0).options("Disabled", "Charge", "Discharge"),
		reg("econ_rule_4_start_time", "Rule 4 Start Time", 8596, ScaleRaw, 0),
		reg("econ_rule_4_stop_time", "Rule 4 Stop Time", 8597, ScaleRaw, 0),
		reg("econ_rule_4_start_day", "Rule 4 Start Day", 8598, ScaleRaw, 0),
		reg("econ_rule_4_stop_day", "Rule 4 Stop Day", 8599, ScaleRaw, 0),
		reg("econ_rule_4_effective_week", "Rule 4 Effective Week", 8600, ScaleRaw, 0),
		reg("econ_rule_4_voltage", "Rule 4 Voltage", 8601, ScaleDiv10, 1).unit("V", "voltage", ""),
		reg("econ_rule_4_soc", "Rule 4 SOC", 8602, ScaleRaw, 0).unit("%", "battery", ""),
		reg("econ_rule_4_power", "Rule 4 Power", 8603, ScaleRaw, 0).unit("W", "power", ""),
		reg("battery_type", "Battery Type", 8483, ScaleRaw, 0),
		reg("battery_pack_series_count", "Battery Pack Number in Series", 8484, ScaleRaw, 0),
		reg("battery_charged_voltage", "Battery Charged Voltage", 8485, ScaleDiv10, 1).unit("V", "voltage", ""),
		reg("battery_floating_charged_voltage", "Battery Floating Charged Voltage", 8486, ScaleDiv10, 1).unit("V", "voltage", ""),
		reg("battery_cutoff_voltage_ongrid_no_bms", "Battery Cut-off Voltage (On-grid, no BMS)", 8487, ScaleDiv10, 1).unit("V", "voltage", ""),
		reg("battery_cutoff_voltage_offgrid_no_bms", "Battery Cut-off Voltage (Off-grid, no BMS)", 8488, ScaleDiv10, 1).unit("V", "voltage", ""),
		reg("battery_restart_voltage_offgrid_no_bms", "Battery Restart Voltage (Off-grid, no BMS)", 8489, ScaleDiv10, 1).unit("V", "voltage", ""),
		reg("battery_discharge_depth_ongrid_bms", "Battery Discharge Depth (On-grid, BMS)", 8490, ScaleRaw, 0).unit("%", "battery", ""),
		reg("battery_discharge_depth_offgrid_bms", "Battery Discharge Depth (Off-grid, BMS)", 8491, ScaleRaw, 0).unit("%", "battery", ""),
		reg("battery_restart_depth_offgrid_bms", "Battery Restart Depth (Off-grid, BMS)", 8492, ScaleRaw, 0).unit("%", "battery", ""),
		reg("battery_max_charge_current", "Battery Max Charged Current", 8493, ScaleDiv10, 1).unit("A", "current", ""),
		reg("battery_max_discharge_current", "Battery Max Discharged Current", 8494, ScaleDiv10, 1).unit("A", "current", ""),
	}
}
